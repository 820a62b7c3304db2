package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

const schema = `
  CREATE TABLE IF NOT EXISTS entries
    (id         BIGINT AUTO_INCREMENT PRIMARY KEY,
     user_id    CHAR(36)     NOT NULL,
     user_name  VARCHAR(255) NOT NULL,
     place_name VARCHAR(255) NOT NULL,
     rating     DOUBLE       NULL,
     feedback   TEXT         NULL,
     action     VARCHAR(64)  NOT NULL,
     created_at DATETIME(6)  NOT NULL,
     INDEX idx_entries_user_id (user_id),
     INDEX idx_entries_place_name (place_name),
     INDEX idx_entries_created_at (created_at))
`

// Config holds MySQL store configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// EntryStore implements ports.EntryStore on a MySQL database
type EntryStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEntryStore opens the database, ensures the schema, and verifies
// connectivity.
func NewEntryStore(ctx context.Context, cfg Config, logger *zap.Logger) (*EntryStore, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	s := &EntryStore{
		db:     db,
		logger: logger,
	}

	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *EntryStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure entries table: %w", err)
	}
	return nil
}

// Insert stores the entry and returns the database-assigned id
func (s *EntryStore) Insert(ctx context.Context, entry *domain.Entry) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO entries
           (user_id, user_name, place_name, rating, feedback, action, created_at)
           VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID.String(),
		entry.UserName,
		entry.PlaceName,
		entry.Rating,
		nullableString(entry.Feedback),
		entry.Action,
		entry.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return id, nil
}

// Get retrieves an entry by id
func (s *EntryStore) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_name, place_name, rating, feedback, action, created_at
           FROM entries
           WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// List returns entries matching the filter, newest first
func (s *EntryStore) List(ctx context.Context, filter ports.EntryFilter) ([]*domain.Entry, error) {
	var (
		conds  []string
		params []interface{}
	)
	if filter.UserID != nil {
		conds = append(conds, "user_id = ?")
		params = append(params, filter.UserID.String())
	}
	if filter.PlaceName != nil {
		conds = append(conds, "place_name = ?")
		params = append(params, *filter.PlaceName)
	}

	query := `SELECT id, user_id, user_name, place_name, rating, feedback, action, created_at
                FROM entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	params = append(params, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries
func (s *EntryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// Ping checks database connectivity
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql ping failed: %w", err)
	}
	return nil
}

// Close closes the database handle
func (s *EntryStore) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*domain.Entry, error) {
	var (
		entry    domain.Entry
		userID   string
		rating   sql.NullFloat64
		feedback sql.NullString
	)

	err := row.Scan(&entry.ID, &userID, &entry.UserName, &entry.PlaceName,
		&rating, &feedback, &entry.Action, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id in row %d: %w", entry.ID, err)
	}
	entry.UserID = parsed

	if rating.Valid {
		entry.Rating = &rating.Float64
	}
	if feedback.Valid {
		entry.Feedback = feedback.String
	}

	return &entry, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
