package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurgis/mcpconform/internal/syntax"
)

func TestDetectDuplicateKeysFlagsRepeatedKey(t *testing.T) {
	raw := []byte(`{"result": {"status": "ok", "status": "match:type:string"}}`)
	out, err := syntax.DetectDuplicateKeys(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, syntax.KindDuplicateKey, out[0].Kind)
	assert.Equal(t, "$.result.status", out[0].Path)
}

func TestDetectDuplicateKeysAcceptsCleanDocument(t *testing.T) {
	raw := []byte(`{"result": {"status": "ok", "tags": ["a", "b"]}}`)
	out, err := syntax.DetectDuplicateKeys(raw)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAnalyzeDocumentCombinesAllRuleFamilies(t *testing.T) {
	raw := []byte(`{"result": {"status": "contains:ok", "status": "match:type:string"}}`)
	out, err := syntax.AnalyzeDocument(raw)
	require.NoError(t, err)

	var sawDuplicate bool
	for _, s := range out {
		if s.Kind == syntax.KindDuplicateKey {
			sawDuplicate = true
		}
	}
	assert.True(t, sawDuplicate)
}
