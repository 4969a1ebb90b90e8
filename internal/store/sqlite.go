package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens dataSourceName and initializes the schema.
func NewSQLiteStore(logger *zap.Logger, dataSourceName string) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	logger.Info("database connection established",
		zap.String("op", "store.NewSQLiteStore"),
		zap.String("dataSource", dataSourceName),
	)
	return s, nil
}

// initSchema creates the leasings table. The contract is stored as the JSON
// of its configuration so the user-facing units survive a round trip.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS leasings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS leasings_created_at ON leasings (created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateLeasing inserts a new leasing. A nil id is replaced by a random one
// and zero timestamps by the current time.
func (s *SQLiteStore) CreateLeasing(leasing *Leasing) error {
	if leasing.ID == uuid.Nil {
		leasing.ID = uuid.New()
	}
	now := time.Now().UTC()
	if leasing.CreatedAt.IsZero() {
		leasing.CreatedAt = now
	}
	if leasing.UpdatedAt.IsZero() {
		leasing.UpdatedAt = leasing.CreatedAt
	}

	body, err := json.Marshal(leasing.Config)
	if err != nil {
		return fmt.Errorf("failed to encode leasing: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO leasings (id, name, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		leasing.ID.String(), leasing.Name, string(body), leasing.CreatedAt, leasing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create leasing: %w", err)
	}
	return nil
}

// GetLeasing retrieves a leasing by its ID.
func (s *SQLiteStore) GetLeasing(id uuid.UUID) (*Leasing, error) {
	row := s.db.QueryRow(`SELECT id, name, body, created_at, updated_at FROM leasings WHERE id = ?`, id.String())
	leasing, err := scanLeasing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leasing: %w", err)
	}
	return leasing, nil
}

// UpdateLeasing replaces the name and body of an existing leasing and bumps
// its update time.
func (s *SQLiteStore) UpdateLeasing(leasing *Leasing) error {
	body, err := json.Marshal(leasing.Config)
	if err != nil {
		return fmt.Errorf("failed to encode leasing: %w", err)
	}
	leasing.UpdatedAt = time.Now().UTC()

	result, err := s.db.Exec(
		`UPDATE leasings SET name = ?, body = ?, updated_at = ? WHERE id = ?`,
		leasing.Name, string(body), leasing.UpdatedAt, leasing.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update leasing: %w", err)
	}
	return requireRow(result)
}

// DeleteLeasing removes a leasing.
func (s *SQLiteStore) DeleteLeasing(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM leasings WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete leasing: %w", err)
	}
	return requireRow(result)
}

// ListLeasings returns a page of leasings, newest first.
func (s *SQLiteStore) ListLeasings(limit, offset int) ([]*Leasing, error) {
	rows, err := s.db.Query(
		`SELECT id, name, body, created_at, updated_at FROM leasings ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leasings: %w", err)
	}
	defer rows.Close()

	leasings := []*Leasing{}
	for rows.Next() {
		leasing, err := scanLeasing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leasing row: %w", err)
		}
		leasings = append(leasings, leasing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return leasings, nil
}

// CountLeasings returns the number of saved leasings.
func (s *SQLiteStore) CountLeasings() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leasings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leasings: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLeasing(row scanner) (*Leasing, error) {
	var leasing Leasing
	var idStr, body string
	if err := row.Scan(&idStr, &leasing.Name, &body, &leasing.CreatedAt, &leasing.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid leasing id %q: %w", idStr, err)
	}
	leasing.ID = id
	if err := json.Unmarshal([]byte(body), &leasing.Config); err != nil {
		return nil, fmt.Errorf("failed to decode leasing %s: %w", idStr, err)
	}
	return &leasing, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
