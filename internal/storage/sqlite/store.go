package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"scheduler/internal/models"
	"scheduler/internal/transfer"
)

// StateKey is the row holding the scheduler snapshot.
const StateKey = "projectSchedulerDataV2"

// Store wraps access to the SQLite database and exposes high level helpers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS app_state (
            key TEXT PRIMARY KEY,
            payload TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TRIGGER IF NOT EXISTS trg_app_state_updated
            AFTER UPDATE OF payload ON app_state
            FOR EACH ROW BEGIN
                UPDATE app_state SET updated_at = CURRENT_TIMESTAMP WHERE key = OLD.key;
            END;`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Load reads the stored snapshot. An empty database yields a fresh
// snapshot rather than an error.
func (s *Store) Load(ctx context.Context) (models.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM app_state WHERE key = ?`, StateKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load state: %w", err)
	}

	snap, err := transfer.DecodeSnapshot(strings.NewReader(payload))
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load state: %w", err)
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	var buf bytes.Buffer
	if err := transfer.EncodeSnapshot(&buf, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO app_state(key, payload) VALUES(?, ?)
        ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`, StateKey, buf.String())
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.logger.Debug("state saved", slog.Int("tickets", len(snap.Tickets)), slog.Int("people", len(snap.People)))
	return nil
}

// UpdatedAt reports when the snapshot was last written. The zero time means
// nothing has been saved yet.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM app_state WHERE key = ?`, StateKey).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("state timestamp: %w", err)
	}
	return ts, nil
}
