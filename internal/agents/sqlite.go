// ABOUTME: SQLite implementation of the agent record Service using modernc.org/sqlite
// ABOUTME: Provides agent persistence with automatic schema creation

package agents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Service interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "agents")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// DB exposes the underlying handle so other stores (users) can share the
// same database file.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS agents (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			sector      TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'draft',
			config_json TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,

			CHECK (status IN ('draft', 'active', 'inactive'))
		);

		CREATE INDEX IF NOT EXISTS idx_agents_status ON agents(status);
		CREATE INDEX IF NOT EXISTS idx_agents_updated ON agents(updated_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// GetAgentByID retrieves an agent record by ID.
// Returns ErrNotFound if the record doesn't exist.
func (s *SQLiteStore) GetAgentByID(ctx context.Context, id string) (*AgentRecord, error) {
	query := `
		SELECT id, name, sector, status, config_json, created_at, updated_at
		FROM agents
		WHERE id = ?
	`

	rec, err := scanAgent(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying agent: %w", err)
	}

	return rec, nil
}

// CreateAgent creates a new agent record and returns it with its id assigned.
// An invalid or empty status defaults to draft.
func (s *SQLiteStore) CreateAgent(ctx context.Context, params CreateParams) (*AgentRecord, error) {
	status := params.Status
	if !status.Valid() {
		status = StatusDraft
	}

	now := time.Now().UTC()
	rec := &AgentRecord{
		ID:        uuid.New().String(),
		Name:      params.Name,
		Sector:    params.Sector,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO agents (id, name, sector, status, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Sector,
		string(rec.Status),
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting agent: %w", err)
	}

	s.logger.Debug("created agent", "id", rec.ID, "name", rec.Name, "status", rec.Status)
	return rec, nil
}

// UpdateAgent applies a partial update to an existing record.
// Returns ErrNotFound if the record doesn't exist.
func (s *SQLiteStore) UpdateAgent(ctx context.Context, id string, params UpdateParams) (*AgentRecord, error) {
	current, err := s.GetAgentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		current.Name = *params.Name
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *params.Status)
		}
		current.Status = *params.Status
	}
	if params.Config != nil {
		current.Config = params.Config
	}
	current.UpdatedAt = time.Now().UTC()

	var configJSON sql.NullString
	if current.Config != nil {
		data, err := json.Marshal(current.Config)
		if err != nil {
			return nil, fmt.Errorf("encoding agent config: %w", err)
		}
		configJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		UPDATE agents
		SET name = ?, status = ?, config_json = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		current.Name,
		string(current.Status),
		configJSON,
		current.UpdatedAt.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating agent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated agent", "id", id, "status", current.Status)
	return current, nil
}

// SaveAgentDraft persists name and status only, with status forced to draft.
func (s *SQLiteStore) SaveAgentDraft(ctx context.Context, id, name string) (*AgentRecord, error) {
	status := StatusDraft
	return s.UpdateAgent(ctx, id, UpdateParams{Name: &name, Status: &status})
}

// ListAgents retrieves all agent records ordered by most recent activity.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]*AgentRecord, error) {
	query := `
		SELECT id, name, sector, status, config_json, created_at, updated_at
		FROM agents
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying agents: %w", err)
	}
	defer rows.Close()

	var records []*AgentRecord
	for rows.Next() {
		rec, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning agent row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agent rows: %w", err)
	}

	return records, nil
}

// DeleteAgent removes an agent record.
// Returns ErrNotFound if the record doesn't exist.
func (s *SQLiteStore) DeleteAgent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted agent", "id", id)
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanAgent.
type scanner interface {
	Scan(dest ...any) error
}

// scanAgent reads one agent row.
func scanAgent(row scanner) (*AgentRecord, error) {
	var rec AgentRecord
	var status string
	var configJSON sql.NullString
	var createdAtStr, updatedAtStr string

	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Sector,
		&status,
		&configJSON,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	rec.Status = Status(status)

	if configJSON.Valid && configJSON.String != "" {
		var cfg AgentConfig
		if err := json.Unmarshal([]byte(configJSON.String), &cfg); err != nil {
			return nil, fmt.Errorf("decoding agent config: %w", err)
		}
		rec.Config = &cfg
	}

	var err error
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &rec, nil
}
