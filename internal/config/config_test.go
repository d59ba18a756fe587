package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(t *testing.T, path string, env map[string]string) *Loader {
	t.Helper()
	l := NewLoader()
	l.SetConfigPath(path)
	l.envFiles = nil
	l.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return l
}

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "irconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: agent
data_dir: `+dir+`
agent:
  listen: ":9000"
  secret: "a-very-long-shared-secret"
ssh:
  dial_timeout: 3s
logging:
  level: debug
`), 0o600))

	cfg, err := testLoader(t, path, map[string]string{
		"IRCONSOLE_AGENT_TARGET":  "web-1",
		"IRCONSOLE_LOG_LEVEL":     "WARN",
		"IRCONSOLE_DNS_CACHE_TTL": "1m",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, BackendAgent, cfg.Backend)
	assert.Equal(t, ":9000", cfg.Agent.Listen)
	assert.Equal(t, "web-1", cfg.Agent.Target)
	assert.Equal(t, "warn", cfg.Logging.Level, "env wins over file")
	assert.Equal(t, 3*time.Second, cfg.SSH.DialTimeout)
	assert.Equal(t, time.Minute, cfg.DNSCacheTTL)
	assert.Equal(t, filepath.Join(dir, "connections.json"), cfg.ConnectionsPath)
	assert.Equal(t, filepath.Join(dir, "audit.db"), cfg.AuditPath)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	l := testLoader(t, "", nil)
	l.configPaths = []string{filepath.Join(t.TempDir(), "a.yaml"), filepath.Join(t.TempDir(), "b.yaml")}
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSSH, cfg.Backend)
	assert.Equal(t, 15*time.Second, cfg.SSH.DialTimeout)
	assert.NotEmpty(t, cfg.SettingsPath)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := testLoader(t, filepath.Join(t.TempDir(), "nope.yaml"), nil).Load()
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irconsole.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend":"local","metrics_addr":":9477"}`), 0o600))
	cfg, err := testLoader(t, path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, ":9477", cfg.MetricsAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: telnet\n"), 0o600))
	_, err := testLoader(t, path, nil).Load()
	assert.ErrorContains(t, err, "invalid backend")

	require.NoError(t, os.WriteFile(path, []byte("backend: local\n"), 0o600))
	_, err = testLoader(t, path, map[string]string{"IRCONSOLE_SSH_DIAL_TIMEOUT": "soon"}).Load()
	assert.ErrorContains(t, err, "IRCONSOLE_SSH_DIAL_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Backend = BackendAgent
	assert.ErrorContains(t, cfg.Validate(), "agent.secret")

	cfg.Agent.Secret = "0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}
