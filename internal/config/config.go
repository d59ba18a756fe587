// Package config loads the console configuration and serves the AI settings
// document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Execution backends.
const (
	BackendSSH   = "ssh"
	BackendAgent = "agent"
	BackendLocal = "local"
)

// Config is the console configuration.
type Config struct {
	// Backend selects the remote execution gateway: ssh, agent or local.
	Backend string `yaml:"backend" json:"backend"`

	DataDir         string `yaml:"data_dir" json:"data_dir"`
	ConnectionsPath string `yaml:"connections_path" json:"connections_path"`
	SettingsPath    string `yaml:"settings_path" json:"settings_path"`
	KnownHostsPath  string `yaml:"known_hosts_path" json:"known_hosts_path"`
	AuditPath       string `yaml:"audit_path" json:"audit_path"`

	SSH     SSHConfig     `yaml:"ssh" json:"ssh"`
	Agent   AgentConfig   `yaml:"agent" json:"agent"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// MetricsAddr enables the Prometheus endpoint when set (e.g. ":9477").
	MetricsAddr string        `yaml:"metrics_addr" json:"metrics_addr"`
	DNSCacheTTL time.Duration `yaml:"dns_cache_ttl" json:"dns_cache_ttl"`
}

// SSHConfig tunes the ssh backend.
type SSHConfig struct {
	DialTimeout    time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	KeyscanTimeout time.Duration `yaml:"keyscan_timeout" json:"keyscan_timeout"`
}

// AgentConfig configures the agent backend listener.
type AgentConfig struct {
	Listen string `yaml:"listen" json:"listen"`
	Secret string `yaml:"secret" json:"secret"`
	// Target is the agent ID or hostname commands go to. Empty uses the only
	// connected agent.
	Target string `yaml:"target" json:"target"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultDataDir is ~/.irconsole, or ./.irconsole without a home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".irconsole"
	}
	return filepath.Join(home, ".irconsole")
}

// DefaultConfig returns a Config with every field set.
func DefaultConfig() *Config {
	cfg := &Config{
		Backend: BackendSSH,
		DataDir: DefaultDataDir(),
		SSH: SSHConfig{
			DialTimeout:    15 * time.Second,
			KeyscanTimeout: 5 * time.Second,
		},
		Agent: AgentConfig{
			Listen: ":7656",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		DNSCacheTTL: 5 * time.Minute,
	}
	return cfg
}

// applyPathDefaults fills file locations that were left empty from DataDir.
func (c *Config) applyPathDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.ConnectionsPath == "" {
		c.ConnectionsPath = filepath.Join(c.DataDir, "connections.json")
	}
	if c.SettingsPath == "" {
		c.SettingsPath = filepath.Join(c.DataDir, "settings.json")
	}
	if c.KnownHostsPath == "" {
		c.KnownHostsPath = filepath.Join(c.DataDir, "known_hosts")
	}
	if c.AuditPath == "" {
		c.AuditPath = filepath.Join(c.DataDir, "audit.db")
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSSH, BackendAgent, BackendLocal:
	default:
		return fmt.Errorf("invalid backend %q (want ssh, agent or local)", c.Backend)
	}

	if c.Backend == BackendAgent {
		if c.Agent.Listen == "" {
			return fmt.Errorf("agent.listen is required for the agent backend")
		}
		if len(c.Agent.Secret) < 16 {
			return fmt.Errorf("agent.secret must be at least 16 characters")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "auto", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}

	if c.SSH.DialTimeout < 0 || c.SSH.KeyscanTimeout < 0 || c.DNSCacheTTL < 0 {
		return fmt.Errorf("durations cannot be negative")
	}
	return nil
}
