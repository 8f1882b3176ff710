package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/putsign/putsign/pkg/putsign"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements putsign.GrantStore using PostgreSQL. The schema is in
// schema.sql next to this file.
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL grant store
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL grant store with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("grant already recorded")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// RecordGrant stores an issued grant
func (s *Store) RecordGrant(ctx context.Context, grant *putsign.Grant) error {
	query := `
		INSERT INTO signed_grant (
			id, backend, bucket, object_key, method, content_type, url,
			issued_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.Exec(ctx, query,
		grant.ID, grant.Backend, grant.Bucket, grant.ObjectKey, grant.Method,
		grant.ContentType, grant.URL, grant.IssuedAt, grant.ExpiresAt)
	if err != nil {
		return handlePostgresError("record_grant", err)
	}
	return nil
}

// GetGrant retrieves a grant by ID
func (s *Store) GetGrant(ctx context.Context, id uuid.UUID) (*putsign.Grant, error) {
	query := `
		SELECT id, backend, bucket, object_key, method, content_type, url,
		       issued_at, expires_at
		FROM signed_grant
		WHERE id = $1`

	var grant putsign.Grant
	err := s.db.QueryRow(ctx, query, id).Scan(
		&grant.ID, &grant.Backend, &grant.Bucket, &grant.ObjectKey,
		&grant.Method, &grant.ContentType, &grant.URL,
		&grant.IssuedAt, &grant.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, putsign.ErrGrantNotFound
		}
		return nil, handlePostgresError("get_grant", err)
	}
	return &grant, nil
}

// ListGrants returns recorded grants, newest first. An empty bucket matches
// all buckets.
func (s *Store) ListGrants(ctx context.Context, bucket string) ([]*putsign.Grant, error) {
	query := `
		SELECT id, backend, bucket, object_key, method, content_type, url,
		       issued_at, expires_at
		FROM signed_grant
		WHERE $1 = '' OR bucket = $1
		ORDER BY issued_at DESC`

	rows, err := s.db.Query(ctx, query, bucket)
	if err != nil {
		return nil, handlePostgresError("list_grants", err)
	}
	defer rows.Close()

	var grants []*putsign.Grant
	for rows.Next() {
		var grant putsign.Grant
		if err := rows.Scan(
			&grant.ID, &grant.Backend, &grant.Bucket, &grant.ObjectKey,
			&grant.Method, &grant.ContentType, &grant.URL,
			&grant.IssuedAt, &grant.ExpiresAt); err != nil {
			return nil, handlePostgresError("list_grants", err)
		}
		grants = append(grants, &grant)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list_grants", err)
	}
	return grants, nil
}
