// Package audit keeps a durable history of every action dispatched from the
// console, using SQLite so the record survives restarts.
package audit

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Entry is one dispatched action.
type Entry struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Action    string        `json:"action"`
	Subject   string        `json:"subject"`
	Command   string        `json:"command"`
	Account   string        `json:"account,omitempty"`
	Backend   string        `json:"backend"`
	Output    string        `json:"output,omitempty"`
	ExitCode  *int          `json:"exit_code,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Recorder is what the console writes to.
type Recorder interface {
	Record(ctx context.Context, e Entry) (string, error)
}

// StoreConfig holds configuration for the audit store
type StoreConfig struct {
	DBPath        string
	Retention     time.Duration // zero keeps everything
	PruneInterval time.Duration
	MaxOutput     int // stored output is truncated to this many bytes
}

// DefaultConfig returns the defaults for a data directory.
func DefaultConfig(dataDir string) StoreConfig {
	return StoreConfig{
		DBPath:        filepath.Join(dataDir, "audit.db"),
		Retention:     30 * 24 * time.Hour,
		PruneInterval: time.Hour,
		MaxOutput:     64 * 1024,
	}
}

// Store persists audit entries.
type Store struct {
	db     *sql.DB
	config StoreConfig

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewStore opens or creates the audit database.
func NewStore(config StoreConfig) (*Store, error) {
	if config.DBPath == "" {
		return nil, fmt.Errorf("audit database path is required")
	}
	if config.PruneInterval <= 0 {
		config.PruneInterval = time.Hour
	}
	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{
		db:      db,
		config:  config,
		entropy: ulid.Monotonic(rand.Reader, 0),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		now:     time.Now,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go store.backgroundWorker()

	log.Info().
		Str("path", config.DBPath).
		Dur("retention", config.Retention).
		Msg("Audit store initialized")

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS executions (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			action TEXT NOT NULL,
			subject TEXT NOT NULL,
			command TEXT NOT NULL,
			account TEXT NOT NULL DEFAULT '',
			backend TEXT NOT NULL DEFAULT '',
			output TEXT NOT NULL DEFAULT '',
			exit_code INTEGER,
			error TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_executions_started ON executions(started_at);
		CREATE INDEX IF NOT EXISTS idx_executions_kind ON executions(kind, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) newID(t time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Record stores e and returns its ID. StartedAt defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.StartedAt.IsZero() {
		e.StartedAt = s.now()
	}
	if e.ID == "" {
		e.ID = s.newID(e.StartedAt)
	}
	if s.config.MaxOutput > 0 && len(e.Output) > s.config.MaxOutput {
		e.Output = e.Output[:s.config.MaxOutput]
	}

	var exitCode sql.NullInt64
	if e.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*e.ExitCode), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO executions (id, kind, action, subject, command, account, backend, output, exit_code, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Action, e.Subject, e.Command, e.Account, e.Backend, e.Output,
		exitCode, e.Error, e.StartedAt.UnixMilli(), e.Duration.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("failed to record audit entry: %w", err)
	}
	return e.ID, nil
}

// Query filters history listings.
type Query struct {
	Kind  string
	Since time.Time
	Limit int
}

// Recent returns entries newest first.
func (s *Store) Recent(ctx context.Context, q Query) ([]Entry, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	sqlText := `SELECT id, kind, action, subject, command, account, backend, output, exit_code, error, started_at, duration_ms
		FROM executions WHERE started_at >= ?`
	args := []interface{}{q.Since.UnixMilli()}
	if q.Since.IsZero() {
		args[0] = int64(0)
	}
	if q.Kind != "" {
		sqlText += ` AND kind = ?`
		args = append(args, q.Kind)
	}
	sqlText += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns one entry by ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, action, subject, command, account, backend, output, exit_code, error, started_at, duration_ms
		 FROM executions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("audit entry %s not found", id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		exitCode  sql.NullInt64
		startedMs int64
		durMs     int64
	)
	if err := row.Scan(&e.ID, &e.Kind, &e.Action, &e.Subject, &e.Command, &e.Account, &e.Backend,
		&e.Output, &exitCode, &e.Error, &startedMs, &durMs); err != nil {
		return Entry{}, err
	}
	if exitCode.Valid {
		code := int(exitCode.Int64)
		e.ExitCode = &code
	}
	e.StartedAt = time.UnixMilli(startedMs)
	e.Duration = time.Duration(durMs) * time.Millisecond
	return e, nil
}

func (s *Store) backgroundWorker() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}

// Prune deletes entries older than the retention window.
func (s *Store) Prune() int64 {
	if s.config.Retention <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.config.Retention).UnixMilli()
	result, err := s.db.Exec(`DELETE FROM executions WHERE started_at < ?`, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to prune audit entries")
		return 0
	}
	affected, _ := result.RowsAffected()
	if affected > 0 {
		log.Info().Int64("deleted", affected).Msg("Audit retention cleanup completed")
	}
	return affected
}

// Close shuts down the store.
func (s *Store) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	select {
	case <-s.doneCh:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Audit store shutdown timed out")
	}

	return s.db.Close()
}
