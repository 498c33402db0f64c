// Package store provides SQLite-backed logging of plugin command executions.
// Recording is best-effort; callers log failures and move on.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"plugin2mcp/internal/logging"
)

// InvocationStore persists one row per executed plugin command.
type InvocationStore struct {
	mu sync.Mutex
	db *sql.DB
}

// Invocation is a recorded execution.
type Invocation struct {
	RequestID    string
	PluginName   string
	CommandName  string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}

// Open opens (or creates) the invocation log at dbPath.
func Open(dbPath string) (*InvocationStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &InvocationStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the database schema.
func (s *InvocationStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			request_id TEXT PRIMARY KEY,
			plugin TEXT,
			command TEXT NOT NULL,
			model TEXT,
			input_tokens INTEGER DEFAULT 0,
			output_tokens INTEGER DEFAULT 0,
			latency_ms INTEGER DEFAULT 0,
			success INTEGER DEFAULT 0,
			error TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create invocations table: %w", err)
	}

	_, _ = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_invocations_command ON invocations(command)`)

	return nil
}

// Close closes the database connection.
func (s *InvocationStore) Close() error {
	return s.db.Close()
}

// Record persists one invocation.
func (s *InvocationStore) Record(ctx context.Context, inv Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	success := 0
	if inv.Success {
		success = 1
	}
	createdAt := inv.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (request_id, plugin, command, model, input_tokens, output_tokens, latency_ms, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			latency_ms = excluded.latency_ms,
			success = excluded.success,
			error = excluded.error
	`,
		inv.RequestID, inv.PluginName, inv.CommandName, inv.Model,
		inv.InputTokens, inv.OutputTokens, inv.LatencyMs, success,
		inv.ErrorMessage, createdAt,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to record invocation %s: %v", inv.RequestID, err)
	}
	return err
}

// Recent returns the most recent invocations, newest first.
func (s *InvocationStore) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, plugin, command, model, input_tokens, output_tokens, latency_ms, success, error, created_at
		FROM invocations
		ORDER BY created_at DESC, request_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []Invocation
	for rows.Next() {
		var inv Invocation
		var success int
		var errMsg sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(
			&inv.RequestID, &inv.PluginName, &inv.CommandName, &inv.Model,
			&inv.InputTokens, &inv.OutputTokens, &inv.LatencyMs, &success,
			&errMsg, &createdAt,
		); err != nil {
			return nil, err
		}

		inv.Success = success == 1
		if errMsg.Valid {
			inv.ErrorMessage = errMsg.String
		}
		if createdAt.Valid {
			inv.CreatedAt = createdAt.Time
		}
		invocations = append(invocations, inv)
	}

	return invocations, rows.Err()
}

// Summary aggregates the whole log.
type Summary struct {
	Total        int
	Succeeded    int
	AvgLatencyMs int64
}

// Summarize computes totals across all recorded invocations.
func (s *InvocationStore) Summarize(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary Summary
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(success), 0), AVG(latency_ms) FROM invocations
	`).Scan(&summary.Total, &summary.Succeeded, &avg)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		summary.AvgLatencyMs = int64(avg.Float64)
	}

	return &summary, nil
}
