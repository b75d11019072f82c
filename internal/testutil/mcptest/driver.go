package mcptest

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// TestDriver manages in-process fake MCP servers for exercising the
// validator, fieldpath, and harness packages without spawning a real
// subprocess.
type TestDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	testServers map[string]*Server
}

// NewTestDriver creates a new test driver.
func NewTestDriver() *TestDriver {
	ctx, cancel := context.WithCancel(context.Background())
	return &TestDriver{
		ctx:         ctx,
		cancel:      cancel,
		testServers: make(map[string]*Server),
	}
}

// AddTestServer adds a fake server with the given ID and configuration.
func (td *TestDriver) AddTestServer(serverID string, config *ServerConfig) error {
	log.Printf("[TestDriver] Adding test server: %s (tools: %d, resources: %d)",
		serverID, len(config.Tools), len(config.Resources))

	server := NewServer(config)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start server %s: %w", serverID, err)
	}
	td.testServers[serverID] = server
	return nil
}

// CreateStdioTransport creates an in-memory stdio transport to a test server.
func (td *TestDriver) CreateStdioTransport(serverID string) (sdk.Transport, error) {
	testServer, ok := td.testServers[serverID]
	if !ok {
		return nil, fmt.Errorf("server %s not found", serverID)
	}

	log.Printf("[TestDriver] Creating transport for server: %s", serverID)

	// Create in-memory transports that connect to each other
	serverTransport, clientTransport := sdk.NewInMemoryTransports()

	// Start the test server with the server transport
	go func() {
		if err := testServer.GetServer().Run(td.ctx, serverTransport); err != nil {
			log.Printf("[TestDriver] Server %s stopped: %v", serverID, err)
		}
	}()

	return clientTransport, nil
}

// CreateCommandTransport creates a command-based transport that runs a command.
// Used to drive the harness's own subprocess wire protocol against a real
// executable in tests, rather than the in-memory SDK transport above.
func CreateCommandTransport(ctx context.Context, command string, args ...string) sdk.Transport {
	cmd := exec.CommandContext(ctx, command, args...)
	return &sdk.CommandTransport{Command: cmd}
}

// Stop stops the test driver and all test servers.
func (td *TestDriver) Stop() {
	for _, server := range td.testServers {
		server.Stop()
	}
	if td.cancel != nil {
		td.cancel()
	}
	log.Printf("[TestDriver] Stopped")
}
