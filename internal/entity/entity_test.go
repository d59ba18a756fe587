package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Process ")
	require.NoError(t, err)
	assert.Equal(t, KindProcess, k)

	_, err = ParseKind("docker")
	assert.Error(t, err)
	assert.Len(t, Kinds(), 7)
}

func TestNetworkConnectionAddressSplitting(t *testing.T) {
	tests := []struct {
		name        string
		local       string
		foreign     string
		wantIP      string
		wantPort    string
		wantLocalPt string
	}{
		{"ipv4", "10.0.0.5:22", "203.0.113.9:51234", "203.0.113.9", "51234", "22"},
		{"ipv6 bracketed", "[::1]:8080", "[2001:db8::1]:443", "2001:db8::1", "443", "8080"},
		{"no port", "0.0.0.0", "*", "*", "*", "0.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NetworkConnection{LocalAddress: tt.local, ForeignAddress: tt.foreign}
			assert.Equal(t, tt.wantIP, n.ForeignIP())
			assert.Equal(t, tt.wantPort, n.ForeignPort())
			assert.Equal(t, tt.wantLocalPt, n.LocalPort())
		})
	}
}

func TestFromFields(t *testing.T) {
	e, err := FromFields(KindCron, map[string]string{
		"user":     "root",
		"schedule": "*/5 * * * *",
		"command":  "/usr/local/bin/backup.sh --full",
	})
	require.NoError(t, err)
	cron, ok := e.(CronJob)
	require.True(t, ok)
	assert.Equal(t, "/usr/local/bin/backup.sh", cron.Program())
	assert.Equal(t, "root", e.Subject())

	_, err = FromFields(KindProcess, map[string]string{})
	assert.ErrorContains(t, err, `field "pid" is required`)

	_, err = FromFields(KindService, map[string]string{"name": "sshd", "nmae": "typo"})
	assert.ErrorContains(t, err, "unknown field(s) nmae")
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{"pid=42", "command=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"pid": "42", "command": "a=b"}, fields)

	_, err = ParseFields([]string{"novalue"})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	got := Describe(StartupItem{Name: "nginx", Type: "systemd", Path: "/lib/systemd/system/nginx.service", Command: "/usr/sbin/nginx"})
	assert.Equal(t, "Name: nginx\nType: systemd\nPath: /lib/systemd/system/nginx.service\nCommand: /usr/sbin/nginx", got)
}
