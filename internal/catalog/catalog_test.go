package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcourtman/irconsole/internal/entity"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

var fixtures = map[entity.Kind]entity.Entity{
	entity.KindProcess: entity.Process{PID: "1234"},
	entity.KindNetwork: entity.NetworkConnection{
		Protocol: "tcp", LocalAddress: "10.0.0.5:22", ForeignAddress: "203.0.113.9:51234",
		State: "ESTABLISHED", PID: "812", Process: "sshd",
	},
	entity.KindService:  entity.Service{Name: "nginx"},
	entity.KindUser:     entity.User{Username: "alice"},
	entity.KindCron:     entity.CronJob{User: "root", Schedule: "@daily", Command: "/usr/local/bin/backup.sh --full"},
	entity.KindFirewall: entity.FirewallRule{Chain: "INPUT", Target: "ACCEPT", Protocol: "tcp", Source: "0.0.0.0/0", Destination: "0.0.0.0/0", Options: "tcp dpt:22"},
	entity.KindStartup:  entity.StartupItem{Name: "nginx", Type: "systemd", Path: "/lib/systemd/system/nginx.service", Command: "/usr/sbin/nginx -g daemon"},
}

func TestActionCounts(t *testing.T) {
	want := map[entity.Kind]int{
		entity.KindProcess:  42,
		entity.KindNetwork:  25,
		entity.KindService:  25,
		entity.KindUser:     24,
		entity.KindCron:     17,
		entity.KindFirewall: 23,
		entity.KindStartup:  22,
	}
	for kind, n := range want {
		assert.Len(t, Actions(kind), n, "kind %s", kind)
	}
}

func TestKeysAreUniquePerKind(t *testing.T) {
	for _, kind := range entity.Kinds() {
		seen := make(map[string]bool)
		for _, a := range Actions(kind) {
			assert.False(t, seen[a.Key], "duplicate key %s/%s", kind, a.Key)
			seen[a.Key] = true
			assert.NotEmpty(t, a.Label)
			assert.NotEmpty(t, a.Title)
			assert.Contains(t, Categories(), a.Category)
			if !a.Inline {
				assert.NotEmpty(t, a.Command, "%s/%s has no command", kind, a.Key)
			}
		}
	}
}

func TestBuildersArePure(t *testing.T) {
	for _, kind := range entity.Kinds() {
		e := fixtures[kind]
		for _, a := range Actions(kind) {
			first, err := Build(e, a.Key)
			require.NoError(t, err)
			second, err := Build(e, a.Key)
			require.NoError(t, err)
			assert.Equal(t, first, second, "%s/%s", kind, a.Key)
			assert.NotContains(t, first.Text, "{{", "%s/%s left a placeholder", kind, a.Key)
			assert.NotContains(t, first.Title, "{{", "%s/%s left a placeholder", kind, a.Key)
		}
	}
}

func TestProcessCmdline(t *testing.T) {
	cmd, err := Build(entity.Process{PID: "1234"}, "cmdline")
	require.NoError(t, err)
	assert.Equal(t, `cat /proc/1234/cmdline | tr '\0' ' '`, cmd.Text)
	assert.Equal(t, "Process 1234 - Command line", cmd.Title)
	assert.False(t, cmd.Inline)
}

func TestNetworkUsesDerivedAddressParts(t *testing.T) {
	cmd, err := Build(fixtures[entity.KindNetwork], "port-test")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text, "/dev/tcp/203.0.113.9/51234")
	assert.Equal(t, "Port reachability - 203.0.113.9:51234", cmd.Title)

	cmd, err = Build(fixtures[entity.KindNetwork], "port-process")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text, "lsof -nP -i :22")
}

func TestInlineActions(t *testing.T) {
	cmd, err := Build(fixtures[entity.KindNetwork], "connection-details")
	require.NoError(t, err)
	assert.True(t, cmd.Inline)
	assert.Equal(t, "Connection details", cmd.Title)
	assert.Contains(t, cmd.Text, "Foreign address: 203.0.113.9:51234")

	cmd, err = Build(fixtures[entity.KindFirewall], "rule-details")
	require.NoError(t, err)
	assert.True(t, cmd.Inline)
	assert.Contains(t, cmd.Text, "Options: tcp dpt:22")
}

func TestStartupBranchesOnType(t *testing.T) {
	systemd := fixtures[entity.KindStartup].(entity.StartupItem)
	cmd, err := Build(systemd, "enable")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cmd.Text, "systemctl enable nginx"))

	rcLocal := systemd
	rcLocal.Type = "rc.local"
	cmd, err = Build(rcLocal, "enable")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text, "Startup type: rc.local")

	cmd, err = Build(rcLocal, "run-now")
	require.NoError(t, err)
	assert.Equal(t, "/usr/sbin/nginx -g daemon 2>&1 &", cmd.Text)

	// actions without a fallback ignore the type
	cmd, err = Build(rcLocal, "file-signature")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text, `md5sum "/lib/systemd/system/nginx.service"`)
}

func TestCronTitlesAbbreviateCommand(t *testing.T) {
	long := entity.CronJob{User: "root", Schedule: "* * * * *", Command: strings.Repeat("x", 60)}
	cmd, err := Build(long, "run-now")
	require.NoError(t, err)
	assert.Equal(t, "Run now - "+strings.Repeat("x", 50)+"...", cmd.Title)

	cmd, err = Build(fixtures[entity.KindCron], "check-path")
	require.NoError(t, err)
	assert.Equal(t, "Path check - /usr/local/bin/backup.sh", cmd.Title)
}

func TestFieldsAreInterpolatedVerbatim(t *testing.T) {
	cmd, err := Build(entity.Service{Name: "x; rm -rf /tmp/y"}, "status")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cmd.Text, "systemctl status x; rm -rf /tmp/y 2>/dev/null"))
}

func TestUnknownAction(t *testing.T) {
	_, err := Build(entity.Process{PID: "1"}, "teleport")
	require.Error(t, err)
	assert.True(t, errors.Is(err, consoleerrors.ErrUnknownAction))

	// keys are per kind
	_, err = Lookup(entity.KindProcess, "connection-details")
	assert.True(t, errors.Is(err, consoleerrors.ErrUnknownAction))
}

func TestFilter(t *testing.T) {
	kills := Filter(entity.KindProcess, "kill*", "")
	require.Len(t, kills, 2)
	assert.Equal(t, "kill", kills[0].Key)
	assert.Equal(t, "kill-9", kills[1].Key)

	logs := Filter(entity.KindService, "", CategoryLogQuery)
	assert.Len(t, logs, 3)

	byLabel := Filter(entity.KindUser, "*ssh*", "")
	keys := make([]string, 0, len(byLabel))
	for _, a := range byLabel {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "ssh-keys")
	assert.Contains(t, keys, "disable-ssh")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	long := strings.Repeat("a", 150)
	assert.Equal(t, strings.Repeat("a", 100)+"...", Preview(long))
}
