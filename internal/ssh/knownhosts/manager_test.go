package knownhosts

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func newKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func authorized(key ssh.PublicKey) string {
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))
}

func TestEnsureScansOnceAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssh", "known_hosts")
	key := newKey(t)

	var calls int
	store, err := New(path, WithKeyscanFunc(func(ctx context.Context, host string, port int, timeout time.Duration) ([]byte, error) {
		calls++
		return []byte("# example.com:22 SSH-2.0\n" + host + " " + authorized(key) + "\nother.com " + authorized(key) + "\n"), nil
	}))
	require.NoError(t, err)

	require.NoError(t, store.Ensure(context.Background(), "example.com", 22))
	require.NoError(t, store.Ensure(context.Background(), "example.com", 22))
	assert.Equal(t, 1, calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com "+authorized(key)+"\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsureSkipsScanWhenRecorded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	key := newKey(t)
	require.NoError(t, os.WriteFile(path, []byte("[example.com]:2222 "+authorized(key)+"\n"), 0o600))

	store, err := New(path, WithKeyscanFunc(func(context.Context, string, int, time.Duration) ([]byte, error) {
		t.Fatal("keyscan should not run")
		return nil, nil
	}))
	require.NoError(t, err)
	require.NoError(t, store.Ensure(context.Background(), "example.com", 2222))
}

func TestEnsureNonStandardPortSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	key := newKey(t)
	store, err := New(path, WithKeyscanFunc(func(ctx context.Context, host string, port int, timeout time.Duration) ([]byte, error) {
		assert.Equal(t, 2222, port)
		return []byte("[example.com]:2222 " + authorized(key)), nil
	}))
	require.NoError(t, err)
	require.NoError(t, store.Ensure(context.Background(), "example.com", 2222))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[example.com]:2222 ssh-ed25519 "))
}

func TestEnsureErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")

	store, err := New(path, WithKeyscanFunc(func(context.Context, string, int, time.Duration) ([]byte, error) {
		return []byte("garbage\n"), nil
	}))
	require.NoError(t, err)
	assert.ErrorIs(t, store.Ensure(context.Background(), "example.com", 22), ErrNoHostKeys)
	assert.Error(t, store.Ensure(context.Background(), " ", 22))

	failing, err := New(path, WithKeyscanFunc(func(context.Context, string, int, time.Duration) ([]byte, error) {
		return nil, errors.New("connection refused")
	}))
	require.NoError(t, err)
	assert.ErrorContains(t, failing.Ensure(context.Background(), "example.com", 22), "connection refused")

	_, err = New("")
	assert.Error(t, err)
}

func TestCallbackPinsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	good := newKey(t)
	require.NoError(t, os.WriteFile(path, []byte("example.com "+authorized(good)+"\n"), 0o600))

	store, err := New(path)
	require.NoError(t, err)
	cb, err := store.Callback()
	require.NoError(t, err)

	addr := &net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 22}
	assert.NoError(t, cb("example.com:22", addr, good))

	err = cb("example.com:22", addr, newKey(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHostKeyChanged)

	err = cb("unknown.example:22", addr, good)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHostKeyChanged)
}
