package accounts

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLister(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "connections.json")

	conns, err := NewFileLister(path).LoadConnections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conns, "missing file is an empty list")

	doc := `[{"name":"web-1","host":"10.0.0.5","accounts":[
		{"username":"root","description":"admin","is_default":true,"password":"secret"},
		{"username":"alice","key_path":"/home/me/.ssh/id_ed25519"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	conns, err = NewFileLister(path).LoadConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, 22, conns[0].Port)
	assert.Equal(t, "/home/me/.ssh/id_ed25519", conns[0].Accounts[1].KeyPath)

	def, ok := conns[0].DefaultAccount()
	require.True(t, ok)
	assert.Equal(t, "root", def.Username)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = NewFileLister(path).LoadConnections(context.Background())
	assert.Error(t, err)
}

func TestDefaultAccountFallsBackToFirst(t *testing.T) {
	conn := Connection{Accounts: []Account{{Username: "a"}, {Username: "b"}}}
	def, ok := conn.DefaultAccount()
	require.True(t, ok)
	assert.Equal(t, "a", def.Username)

	_, ok = Connection{}.DefaultAccount()
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	opts := Options([]Account{
		{Username: "alice", Description: "ops", IsDefault: true},
		{Username: "bob"},
	})
	assert.Equal(t, []Option{
		{Value: "", Label: DefaultOptionLabel},
		{Value: "alice", Label: "alice (ops) [default]"},
		{Value: "bob", Label: "bob"},
	}, opts)
}

type slowLister struct {
	calls atomic.Int32
	conns []Connection
}

func (s *slowLister) LoadConnections(ctx context.Context) ([]Connection, error) {
	s.calls.Add(1)
	time.Sleep(50 * time.Millisecond)
	return s.conns, nil
}

func TestLoaderReadsFirstConnectionOnly(t *testing.T) {
	lister := &slowLister{conns: []Connection{
		{Name: "first", Accounts: []Account{{Username: "alice"}}},
		{Name: "second", Accounts: []Account{{Username: "mallory"}}},
	}}
	loader := NewLoader(lister)

	var wg sync.WaitGroup
	results := make([][]Account, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accts, err := loader.Accounts(context.Background())
			assert.NoError(t, err)
			results[i] = accts
		}(i)
	}
	wg.Wait()

	assert.Less(t, lister.calls.Load(), int32(4), "concurrent loads should collapse")
	for _, accts := range results {
		require.Len(t, accts, 1)
		assert.Equal(t, "alice", accts[0].Username)
	}
}

func TestLoaderEmpty(t *testing.T) {
	accts, err := NewLoader(&slowLister{}).Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accts)
}

func TestResolver(t *testing.T) {
	var r Resolver
	_, ok := r.Selected()
	assert.False(t, ok)

	r.Select("alice")
	name, ok := r.Selected()
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	r.Select("  ")
	_, ok = r.Selected()
	assert.False(t, ok, "blank selection restores the default")

	r.Select("bob")
	r.Reset()
	_, ok = r.Selected()
	assert.False(t, ok)
}
