package harness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taurgis/mcpconform/internal/harness"
)

func TestValidateConfigDocumentRequiresCommand(t *testing.T) {
	err := harness.ValidateConfigDocument(map[string]interface{}{
		"args": []string{"server.js"},
	})
	assert.Error(t, err)
}

func TestValidateConfigDocumentRejectsUnknownField(t *testing.T) {
	err := harness.ValidateConfigDocument(map[string]interface{}{
		"command":        "node",
		"totally_unused": true,
	})
	assert.Error(t, err)
}

func TestValidateConfigDocumentAcceptsMinimalDocument(t *testing.T) {
	err := harness.ValidateConfigDocument(map[string]interface{}{
		"command": "node",
		"args":    []string{"server.js"},
	})
	assert.NoError(t, err)
}
