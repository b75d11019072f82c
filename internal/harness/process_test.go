package harness_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurgis/mcpconform/internal/harness"
)

// fixtureScript is a minimal line-oriented JSON-RPC 2.0 stdio server:
// it replies to "initialize" and "tools/list" with fixed responses and
// silently drops the "initialized" notification, enough to exercise
// the harness's handshake and request/response correlation without a
// real MCP SDK dependency.
const fixtureScript = `
while IFS= read -r line; do
  case "$line" in
    *'"method":"initialize"'*)
      printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","serverInfo":{"name":"fixture-server","version":"9.9.9"},"capabilities":{}}}'
      ;;
    *'"method":"initialized"'*)
      ;;
    *'"method":"tools/list"'*)
      printf '%s\n' '{"jsonrpc":"2.0","id":2,"result":{"tools":[{"name":"echo_tool"}]}}'
      ;;
  esac
done
`

func fixtureConfig(extra string) *harness.Config {
	return &harness.Config{
		Command:           "sh",
		Args:              []string{"-c", extra + fixtureScript},
		StartupTimeoutMS:  500,
		ResponseTimeoutMS: 2000,
		ShutdownTimeoutMS: 1000,
	}
}

func TestHandshakeCapturesServerInfo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := harness.Start(ctx, fixtureConfig(""))
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, "2024-11-05", sess.ProtocolVersion())
	require.False(t, sess.ServerInfo().IsNull())
}

func TestCallCorrelatesResponseByID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := harness.Start(ctx, fixtureConfig(""))
	require.NoError(t, err)
	defer sess.Close()

	result, rpcErr, err := sess.Call(ctx, "tools/list", map[string]interface{}{})
	require.NoError(t, err)
	require.Nil(t, rpcErr)

	tools, ok := result.Object().Get("tools")
	require.True(t, ok)
	require.Len(t, tools.Array(), 1)
}

func TestCallTimesOutWhenServerNeverResponds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := fixtureConfig("")
	cfg.ResponseTimeoutMS = 200

	sess, err := harness.Start(ctx, cfg)
	require.NoError(t, err)
	defer sess.Close()

	_, _, err = sess.Call(ctx, "resources/list", map[string]interface{}{})
	require.Error(t, err)

	var herr *harness.HarnessError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, harness.KindTimeoutResponse, herr.Kind)
}

func TestStderrBufferCapturesAndClears(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := harness.Start(ctx, fixtureConfig("echo 'booting up' 1>&2\n"))
	require.NoError(t, err)
	defer sess.Close()

	assert.Contains(t, sess.Stderr(), "booting up")
	assert.False(t, sess.StderrIsEmpty())

	sess.ClearStderr()
	assert.True(t, sess.StderrIsEmpty())
}

func TestStartFailsOnUnresolvableCommand(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := harness.Start(ctx, &harness.Config{Command: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)

	var herr *harness.HarnessError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, harness.KindSpawnFailed, herr.Kind)
}
