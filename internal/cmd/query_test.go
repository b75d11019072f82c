package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryExtractsDirectPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captured.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":[{"name":"echo_tool"}]}`), 0644))

	queryFile, queryPath, queryJQ = path, "tools[0].name", false
	cmd := newQueryCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echo_tool")
}

func TestQueryExtractsViaJQ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captured.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":[{"name":"echo_tool"}]}`), 0644))

	queryFile, queryPath, queryJQ = path, "tools[*].name", true
	cmd := newQueryCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echo_tool")
}

func TestQueryFailsOnUnresolvedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captured.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":[]}`), 0644))

	queryFile, queryPath, queryJQ = path, "tools[0].name", false
	cmd := newQueryCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	err := cmd.RunE(cmd, nil)
	assert.Error(t, err)
}
