package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintFlagsMissingMatchPrefix(t *testing.T) {
	suitePath := writeSuite(t, `{
		"description": "lint fixture",
		"server": {"command": "sh"},
		"tests": [
			{
				"name": "uses a bare pattern body",
				"request": {"method": "tools/list", "params": {}},
				"expect": {"response": {"status": "contains:ok"}}
			}
		]
	}`)

	cmd := newLintCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, []string{suitePath})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "match:contains:ok")
}

func TestLintAcceptsCleanSuite(t *testing.T) {
	suitePath := writeSuite(t, `{
		"description": "lint fixture",
		"server": {"command": "sh"},
		"tests": [
			{
				"name": "uses canonical pattern syntax",
				"request": {"method": "tools/list", "params": {}},
				"expect": {"response": {"status": "match:type:string"}}
			}
		]
	}`)

	cmd := newLintCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, []string{suitePath})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no issues found")
}
