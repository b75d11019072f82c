package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureServerScript = `
while IFS= read -r line; do
  case "$line" in
    *'"method":"initialize"'*)
      printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","serverInfo":{"name":"fixture","version":"1.0.0"},"capabilities":{}}}'
      ;;
    *'"method":"initialized"'*)
      ;;
    *'"method":"tools/list"'*)
      printf '%s\n' '{"jsonrpc":"2.0","id":2,"result":{"tools":[{"name":"echo_tool","inputSchema":{"type":"object","properties":{}}}]}}'
      ;;
  esac
done
`

func writeSuite(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunSuitePassesOnMatchingResponse(t *testing.T) {
	suitePath := writeSuite(t, `{
		"description": "echo tool suite",
		"server": {"command": "sh", "args": ["-c", `+escapeJSON(fixtureServerScript)+`], "startupTimeoutMs": 1000, "responseTimeoutMs": 2000},
		"tests": [
			{
				"name": "lists the echo tool",
				"request": {"method": "tools/list", "params": {}},
				"expect": {"response": {"tools": "match:arrayContains:name:echo_tool"}, "stderr": "toBeEmpty"}
			}
		]
	}`)

	cmd := newRunCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, []string{suitePath})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PASS")
	assert.Contains(t, buf.String(), "1 passed, 0 failed")
}

func TestRunSuiteFailsOnMismatchedResponse(t *testing.T) {
	suitePath := writeSuite(t, `{
		"description": "echo tool suite",
		"server": {"command": "sh", "args": ["-c", `+escapeJSON(fixtureServerScript)+`], "startupTimeoutMs": 1000, "responseTimeoutMs": 2000},
		"tests": [
			{
				"name": "expects a tool that does not exist",
				"request": {"method": "tools/list", "params": {}},
				"expect": {"response": {"tools": "match:arrayContains:name:nonexistent_tool"}}
			}
		]
	}`)

	cmd := newRunCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, []string{suitePath})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "FAIL")
}

// escapeJSON renders s as a double-quoted JSON string literal, used to
// embed the shell fixture script inside an inline suite JSON body.
func escapeJSON(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
