// Package harness implements a process harness: it
// spawns a server under test, performs the MCP handshake, frames
// newline-delimited JSON-RPC requests and responses over its stdio, and
// exposes a Session that a suite driver calls against.
package harness

import "fmt"

// ErrorKind discriminates the process-level failure taxonomy.
// Validation discrepancies never produce an ErrorKind —
// only conditions that abort a suite do.
type ErrorKind string

const (
	KindSpawnFailed       ErrorKind = "spawn_failed"
	KindTimeoutHandshake  ErrorKind = "timeout:handshake"
	KindTimeoutResponse   ErrorKind = "timeout:response"
	KindTimeoutShutdown   ErrorKind = "timeout:shutdown"
	KindProtocolFraming   ErrorKind = "protocol_framing"
	KindHandshakeRejected ErrorKind = "handshake_rejected"
	KindCancelled         ErrorKind = "cancelled"
)

// HarnessError wraps a process-level failure with its ErrorKind so
// callers can switch on Kind or errors.Is/As against the wrapped cause.
type HarnessError struct {
	Kind ErrorKind
	Err  error
}

func (e *HarnessError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *HarnessError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...interface{}) *HarnessError {
	return &HarnessError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
