package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IRCONSOLE_"

// Loader resolves the configuration from defaults, a config file, an optional
// .env file and the environment, in increasing precedence.
type Loader struct {
	configPaths []string
	envFiles    []string
	envPrefix   string
	lookupEnv   func(string) (string, bool)
}

// NewLoader creates a loader searching the standard locations.
func NewLoader() *Loader {
	dataDir := DefaultDataDir()
	return &Loader{
		envPrefix: EnvPrefix,
		configPaths: []string{
			"./irconsole.yaml",
			"./irconsole.yml",
			"./irconsole.json",
			filepath.Join(dataDir, "irconsole.yaml"),
			"/etc/irconsole/irconsole.yaml",
		},
		envFiles:  []string{".env", filepath.Join(dataDir, ".env")},
		lookupEnv: os.LookupEnv,
	}
}

// SetConfigPath makes path the only config file considered. Unlike the
// search list, a missing explicit path is an error.
func (l *Loader) SetConfigPath(path string) {
	if path != "" {
		l.configPaths = []string{path}
	}
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	explicit := len(l.configPaths) == 1
	if err := l.loadFromFile(cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Debug().Msg("No config file found, using defaults")
	}

	l.loadDotEnv()
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, err
	}

	cfg.applyPathDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	var path string
	for _, p := range l.configPaths {
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return fmt.Errorf("no config file found in %s: %w", strings.Join(l.configPaths, ", "), os.ErrNotExist)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	log.Info().Str("path", path).Msg("Loaded configuration file")
	return nil
}

// loadDotEnv exports .env entries that are not already set.
func (l *Loader) loadDotEnv() {
	for _, path := range l.envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to load .env file")
			continue
		}
		log.Debug().Str("path", path).Msg("Loaded .env file")
	}
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if val, ok := l.lookupEnv(l.envPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) error {
		val, ok := l.lookupEnv(l.envPrefix + name)
		if !ok || val == "" {
			return nil
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", l.envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("BACKEND", &cfg.Backend)
	str("DATA_DIR", &cfg.DataDir)
	str("CONNECTIONS_PATH", &cfg.ConnectionsPath)
	str("SETTINGS_PATH", &cfg.SettingsPath)
	str("KNOWN_HOSTS_PATH", &cfg.KnownHostsPath)
	str("AUDIT_PATH", &cfg.AuditPath)
	str("AGENT_LISTEN", &cfg.Agent.Listen)
	str("AGENT_SECRET", &cfg.Agent.Secret)
	str("AGENT_TARGET", &cfg.Agent.Target)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("LOG_FILE", &cfg.Logging.File)

	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	for name, dst := range map[string]*time.Duration{
		"SSH_DIAL_TIMEOUT":    &cfg.SSH.DialTimeout,
		"SSH_KEYSCAN_TIMEOUT": &cfg.SSH.KeyscanTimeout,
		"DNS_CACHE_TTL":       &cfg.DNSCacheTTL,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	return nil
}
