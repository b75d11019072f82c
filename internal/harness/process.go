package harness

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taurgis/mcpconform/internal/logger"
	"github.com/taurgis/mcpconform/internal/value"
)

var logProc = logger.New("harness:process")

// RPCError mirrors the JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// wireMessage is the superset shape read off the child's stdout: a
// response carries Result xor Error and echoes the request's ID; a
// notification from the server carries Method and no ID.
type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type pendingCall struct {
	resultCh chan wireMessage
}

// Session is a live handshake with one spawned server under test,
// implementing the wire contract: newline-delimited
// JSON-RPC 2.0 over stdio, id-correlated requests, a stderr buffer, and
// graceful shutdown.
type Session struct {
	cfg *Config
	cmd *exec.Cmd

	stdin  *bufio.Writer
	stdinF func() error // closes the underlying pipe

	nextID int64

	mu      sync.Mutex
	pending map[int64]*pendingCall

	stderrMu  sync.Mutex
	stderrBuf bytes.Buffer

	protocolVersion string
	serverInfo      value.Value
	capabilities    value.Value

	doneCh chan struct{} // closed when the stdout reader exits (child gone)
}

// Start spawns cfg's command, waits for readiness (stderr regex or
// startup timeout, whichever is earlier), and performs the MCP
// initialize/initialized handshake.
func Start(ctx context.Context, cfg *Config) (*Session, error) {
	if err := ValidateEnvironment(cfg); err != nil {
		return nil, &HarnessError{Kind: KindSpawnFailed, Err: err}
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	if cfg.WorkingDirectory != "" {
		cmd.Dir = cfg.WorkingDirectory
	}
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), flattenEnv(cfg.Env)...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &HarnessError{Kind: KindSpawnFailed, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &HarnessError{Kind: KindSpawnFailed, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &HarnessError{Kind: KindSpawnFailed, Err: err}
	}

	logProc.Printf("spawning command=%s args=%v", cfg.Command, cfg.Args)
	if err := cmd.Start(); err != nil {
		return nil, &HarnessError{Kind: KindSpawnFailed, Err: err}
	}

	s := &Session{
		cfg:     cfg,
		cmd:     cmd,
		stdin:   bufio.NewWriter(stdin),
		stdinF:  stdin.Close,
		pending: make(map[int64]*pendingCall),
		doneCh:  make(chan struct{}),
	}

	readyCh := make(chan struct{})
	var readyOnce sync.Once
	signalReady := func() { readyOnce.Do(func() { close(readyCh) }) }

	go s.readStdout(stdout)
	go s.readStderr(stderr, cfg.ReadyPattern, signalReady)

	select {
	case <-readyCh:
	case <-time.After(cfg.startupTimeout()):
	}

	if err := s.handshake(ctx); err != nil {
		s.forceKill()
		return nil, err
	}

	return s, nil
}

func flattenEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

// readStderr appends every byte to the scoped buffer and, once
// readyPattern matches, signals readiness exactly once.
func (s *Session) readStderr(r io.Reader, readyPattern string, signalReady func()) {
	var re *regexp.Regexp
	if readyPattern != "" {
		re, _ = regexp.Compile(readyPattern)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s.stderrMu.Lock()
		s.stderrBuf.WriteString(line)
		s.stderrBuf.WriteByte('\n')
		s.stderrMu.Unlock()
		if re != nil && re.MatchString(line) {
			signalReady()
		}
	}
}

// readStdout parses newline-framed JSON-RPC messages, correlating
// responses by id and discarding notifications (no id) from the
// server under test.
func (s *Session) readStdout(r io.Reader) {
	defer close(s.doneCh)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var msg wireMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			logProc.Printf("protocol framing error: %v", err)
			continue
		}
		if msg.ID == nil {
			// Server-originated notification; the harness has no
			// subscriber contract for these, so it is logged and
			// dropped.
			logProc.Printf("<- notification method=%s", msg.Method)
			continue
		}
		s.mu.Lock()
		pc, ok := s.pending[*msg.ID]
		s.mu.Unlock()
		if !ok {
			logProc.Printf("<- response for unknown id=%d", *msg.ID)
			continue
		}
		pc.resultCh <- msg
	}
}

func (s *Session) handshake(ctx context.Context) error {
	id := atomic.AddInt64(&s.nextID, 1)
	params := map[string]interface{}{
		"protocolVersion": s.cfg.protocolVersion(),
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "mcpconform",
			"version": version(),
		},
	}

	resp, err := s.callWithID(ctx, id, "initialize", params, s.cfg.startupTimeout(), KindTimeoutHandshake)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return &HarnessError{Kind: KindHandshakeRejected, Err: fmt.Errorf("initialize rejected: code=%d message=%s", resp.Error.Code, resp.Error.Message)}
	}

	result, err := value.FromJSON(resp.Result)
	if err != nil {
		return &HarnessError{Kind: KindProtocolFraming, Err: fmt.Errorf("initialize result is not valid JSON: %w", err)}
	}
	if obj := result.Object(); result.Kind() == value.KindObject {
		if pv, ok := obj.Get("protocolVersion"); ok && pv.Kind() == value.KindString {
			s.protocolVersion = pv.String()
		}
		if si, ok := obj.Get("serverInfo"); ok {
			s.serverInfo = si
		}
		if caps, ok := obj.Get("capabilities"); ok {
			s.capabilities = caps
		}
	}

	return s.notify("initialized", map[string]interface{}{})
}

// ProtocolVersion returns the server's advertised protocol version
// from the initialize handshake.
func (s *Session) ProtocolVersion() string { return s.protocolVersion }

// ServerInfo returns the server's advertised implementation info.
func (s *Session) ServerInfo() value.Value { return s.serverInfo }

// Capabilities returns the server's advertised capabilities.
func (s *Session) Capabilities() value.Value { return s.capabilities }

// Call sends a JSON-RPC request and blocks for the correlated response
// or the configured response timeout, whichever comes first.
func (s *Session) Call(ctx context.Context, method string, params interface{}) (value.Value, *RPCError, error) {
	id := atomic.AddInt64(&s.nextID, 1)
	resp, err := s.callWithID(ctx, id, method, params, s.cfg.responseTimeout(), KindTimeoutResponse)
	if err != nil {
		return value.Null(), nil, err
	}
	if resp.Error != nil {
		return value.Null(), resp.Error, nil
	}
	if len(resp.Result) == 0 {
		return value.Null(), nil, nil
	}
	result, parseErr := value.FromJSON(resp.Result)
	if parseErr != nil {
		return value.Null(), nil, &HarnessError{Kind: KindProtocolFraming, Err: parseErr}
	}
	return result, nil, nil
}

func (s *Session) callWithID(ctx context.Context, id int64, method string, params interface{}, timeout time.Duration, timeoutKind ErrorKind) (wireMessage, error) {
	pc := &pendingCall{resultCh: make(chan wireMessage, 1)}
	s.mu.Lock()
	s.pending[id] = pc
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return wireMessage{}, &HarnessError{Kind: KindProtocolFraming, Err: err}
	}
	logger.LogRPCRequest(logger.RPCDirectionOutbound, "harness", method, payload)
	logProc.Printf("-> %s id=%d", method, id)

	if err := s.writeLine(payload); err != nil {
		return wireMessage{}, &HarnessError{Kind: KindProtocolFraming, Err: err}
	}

	select {
	case msg := <-pc.resultCh:
		respPayload, _ := json.Marshal(msg)
		logger.LogRPCResponse(logger.RPCDirectionInbound, "harness", respPayload, nil)
		return msg, nil
	case <-ctx.Done():
		return wireMessage{}, &HarnessError{Kind: KindCancelled, Err: ctx.Err()}
	case <-time.After(timeout):
		return wireMessage{}, newError(timeoutKind, "no response to %q (id=%d) within %s", method, id, timeout)
	case <-s.doneCh:
		return wireMessage{}, newError(KindProtocolFraming, "server process exited before responding to %q (id=%d)", method, id)
	}
}

// notify sends a JSON-RPC notification (no id) and does not await a
// reply.
func (s *Session) notify(method string, params interface{}) error {
	note := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	payload, err := json.Marshal(note)
	if err != nil {
		return &HarnessError{Kind: KindProtocolFraming, Err: err}
	}
	logger.LogRPCRequest(logger.RPCDirectionOutbound, "harness", method, payload)
	logProc.Printf("-> %s (notification)", method)
	return s.writeLine(payload)
}

func (s *Session) writeLine(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.stdin.Write(payload); err != nil {
		return err
	}
	if err := s.stdin.WriteByte('\n'); err != nil {
		return err
	}
	return s.stdin.Flush()
}

// Stderr returns a snapshot of every byte captured on the child's
// standard error so far.
func (s *Session) Stderr() string {
	s.stderrMu.Lock()
	defer s.stderrMu.Unlock()
	return s.stderrBuf.String()
}

// ClearStderr discards the captured stderr buffer, letting a suite
// assert on only what a subsequent test produces.
func (s *Session) ClearStderr() {
	s.stderrMu.Lock()
	defer s.stderrMu.Unlock()
	s.stderrBuf.Reset()
}

// StderrIsEmpty reports the toBeEmpty sentinel:
// trimmed buffer is empty.
func (s *Session) StderrIsEmpty() bool {
	return strings.TrimSpace(s.Stderr()) == ""
}

func (s *Session) forceKill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
}

// Close performs graceful shutdown: close stdin, wait up to the
// configured grace window, then terminate; the child is reaped on
// every path.
func (s *Session) Close() error {
	_ = s.stdinF()

	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()

	select {
	case err := <-exited:
		logProc.Print("child exited after stdin close")
		return err
	case <-time.After(s.cfg.shutdownTimeout()):
		logProc.Print("child did not exit within grace window, killing")
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		err := <-exited
		return &HarnessError{Kind: KindTimeoutShutdown, Err: err}
	}
}

// clientVersion is the version string the harness advertises as its own
// clientInfo.version during the initialize handshake. main sets this from
// build metadata via SetClientVersion; it defaults to "dev" for tests and
// any caller that skips that wiring.
var clientVersion = "dev"

// SetClientVersion overrides the clientInfo.version sent during the
// initialize handshake.
func SetClientVersion(v string) {
	if v != "" {
		clientVersion = v
	}
}

func version() string { return clientVersion }
