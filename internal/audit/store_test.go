package audit

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.MaxOutput = 16
	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(v int) *int { return &v }

func TestRecordAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := store.Record(ctx, Entry{
		Kind: "process", Action: "cmdline", Subject: "Process 1234",
		Command: "cat /proc/1234/cmdline", Account: "root", Backend: "ssh",
		Output: strings.Repeat("o", 40), ExitCode: intPtr(0),
		StartedAt: started, Duration: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Len(t, id, 26)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cmdline", got.Action)
	assert.Equal(t, "root", got.Account)
	assert.Len(t, got.Output, 16, "output is truncated")
	require.NotNil(t, got.ExitCode)
	assert.Equal(t, 0, *got.ExitCode)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, 250*time.Millisecond, got.Duration)

	_, err = store.Get(ctx, "missing")
	assert.Error(t, err)
}

func TestRecentOrdersAndFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, kind := range []string{"process", "network", "process"} {
		_, err := store.Record(ctx, Entry{
			Kind: kind, Action: "a", Subject: "s", Command: "c",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := store.Recent(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartedAt.After(all[2].StartedAt))
	assert.Nil(t, all[0].ExitCode)

	procs, err := store.Recent(ctx, Query{Kind: "process", Limit: 1})
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, "process", procs[0].Kind)

	since, err := store.Recent(ctx, Query{Since: base.Add(90 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, since, 1)
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, Entry{Kind: "user", Action: "a", Subject: "s", Command: "c",
		StartedAt: time.Now().Add(-60 * 24 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Record(ctx, Entry{Kind: "user", Action: "b", Subject: "s", Command: "c"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), store.Prune())
	left, err := store.Recent(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].Action)
}

func TestReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	store, err := NewStore(cfg)
	require.NoError(t, err)
	id, err := store.Record(context.Background(), Entry{Kind: "cron", Action: "a", Subject: "s", Command: "c"})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "close is idempotent for the worker")

	reopened, err := NewStore(StoreConfig{DBPath: filepath.Join(dir, "audit.db")})
	require.NoError(t, err)
	defer reopened.Close()
	_, err = reopened.Get(context.Background(), id)
	assert.NoError(t, err)
}

func TestStoreUsesWALJournal(t *testing.T) {
	store := newTestStore(t)

	var mode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))

	var timeout int
	require.NoError(t, store.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}
