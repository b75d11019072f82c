package harness

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/BurntSushi/toml"
)

// Config describes one suite's server-under-test: how to spawn it, how
// to recognize it is ready, and the timeouts that govern the harness's
// suspension points.
type Config struct {
	Command           string            `toml:"command" json:"command"`
	Args              []string          `toml:"args" json:"args"`
	WorkingDirectory  string            `toml:"working_directory" json:"workingDirectory"`
	Env               map[string]string `toml:"env" json:"env"`
	ProtocolVersion   string            `toml:"protocol_version" json:"protocolVersion"`
	ReadyPattern      string            `toml:"ready_pattern" json:"readyPattern"`
	StartupTimeoutMS  int               `toml:"startup_timeout_ms" json:"startupTimeoutMs"`
	ResponseTimeoutMS int               `toml:"response_timeout_ms" json:"responseTimeoutMs"`
	ShutdownTimeoutMS int               `toml:"shutdown_timeout_ms" json:"shutdownTimeoutMs"`
}

const (
	defaultStartupTimeout  = 5 * time.Second
	defaultResponseTimeout = 10 * time.Second
	defaultShutdownTimeout = 3 * time.Second
	defaultProtocolVersion = "2024-11-05"
)

func (c *Config) startupTimeout() time.Duration {
	if c.StartupTimeoutMS <= 0 {
		return defaultStartupTimeout
	}
	return time.Duration(c.StartupTimeoutMS) * time.Millisecond
}

func (c *Config) responseTimeout() time.Duration {
	if c.ResponseTimeoutMS <= 0 {
		return defaultResponseTimeout
	}
	return time.Duration(c.ResponseTimeoutMS) * time.Millisecond
}

func (c *Config) shutdownTimeout() time.Duration {
	if c.ShutdownTimeoutMS <= 0 {
		return defaultShutdownTimeout
	}
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

func (c *Config) protocolVersion() string {
	if c.ProtocolVersion == "" {
		return defaultProtocolVersion
	}
	return c.ProtocolVersion
}

// LoadConfigFile loads a harness Config from a TOML file, the same
// BurntSushi/toml decode this repository's config package uses for its
// server-list configuration, narrowed here to one server-under-test.
func LoadConfigFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode harness config %q: %w", path, err)
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("harness config %q: command is required", path)
	}
	return &cfg, nil
}

// ValidateEnvironment checks that the configured command resolves on
// PATH before a spawn is attempted, the harness's narrowed analog of
// the gateway's ValidateExecutionEnvironment preflight.
func ValidateEnvironment(cfg *Config) error {
	if cfg.Command == "" {
		return fmt.Errorf("command is empty")
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return fmt.Errorf("command %q does not resolve on PATH: %w", cfg.Command, err)
	}
	return nil
}
