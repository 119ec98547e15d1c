package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contract-analyzer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB owns the connection pool for the direct Postgres record store.
type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// PostgresDocumentRepository talks to Postgres directly instead of going
// through PostgREST. It uses the same table layout.
type PostgresDocumentRepository struct {
	db     Querier
	name   string
	table  string
	logger domain.Logger
	now    func() time.Time
}

func NewPostgresDocumentRepository(db Querier, table string, logger domain.Logger) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{
		db:     db,
		name:   table,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logger,
		now:    time.Now,
	}
}

// EnsureSchema creates the table and its lookup index when missing.
func (r *PostgresDocumentRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + r.table + ` (
			id uuid PRIMARY KEY,
			file_name text NOT NULL,
			file_url text NOT NULL,
			text text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{r.name + "_file_name_created_at_idx"}.Sanitize() + ` ON ` + r.table + ` (file_name, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresDocumentRepository) Save(ctx context.Context, record *domain.DocumentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	id := uuid.NewString()
	createdAt := r.now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO `+r.table+` (id, file_name, file_url, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, record.FileName, record.SourceLocation, sanitizeText(record.Text), createdAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert document record", err, "file_name", record.FileName)
		return fmt.Errorf("insert document record: %w", err)
	}

	record.ID = id
	record.CreatedAt = createdAt
	r.logger.Info("Document record created", "file_name", record.FileName, "id", id)
	return nil
}

func (r *PostgresDocumentRepository) FindLatestByFileName(ctx context.Context, fileName string) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	err := r.db.QueryRow(ctx,
		`SELECT id::text, file_name, file_url, text, created_at FROM `+r.table+`
		 WHERE file_name = $1 ORDER BY created_at DESC LIMIT 1`,
		fileName,
	).Scan(&rec.ID, &rec.FileName, &rec.SourceLocation, &rec.Text, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("select document record: %w", err)
	}
	return &rec, nil
}
