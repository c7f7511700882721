package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
	"github.com/polkiloo/invoicedash/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool used by the storage.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type invoiceRepository struct {
	storage *Storage
}

var _ repository.Factory = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("invoice schema ready")

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Invoices returns the invoice repository.
func (s *Storage) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            customer_id TEXT NOT NULL,
            amount BIGINT NOT NULL CHECK (amount >= 0),
            status TEXT NOT NULL CHECK (status IN ('pending', 'paid')),
            date DATE NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices(customer_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- InvoiceRepository implementation ---

const invoiceColumns = `id, customer_id, amount, status, date::text`

// invoiceFilter matches the search query against every visible column.
const invoiceFilter = `($1 = '' OR customer_id ILIKE '%' || $1 || '%'
                       OR status ILIKE '%' || $1 || '%'
                       OR amount::text ILIKE '%' || $1 || '%'
                       OR date::text ILIKE '%' || $1 || '%')`

func (r *invoiceRepository) Create(ctx context.Context, invoice model.Invoice) (uuid.UUID, error) {
	const query = `INSERT INTO invoices (customer_id, amount, status, date) VALUES ($1, $2, $3, $4) RETURNING id`
	var id uuid.UUID
	err := r.storage.pool.QueryRow(ctx, query, invoice.CustomerID, invoice.Amount, invoice.Status, invoice.Date).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice model.Invoice) (bool, error) {
	const query = `UPDATE invoices SET customer_id=$1, amount=$2, status=$3 WHERE id=$4`
	tag, err := r.storage.pool.Exec(ctx, query, invoice.CustomerID, invoice.Amount, invoice.Status, invoice.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `DELETE FROM invoices WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1`
	var inv model.Invoice
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &inv.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + `
                   FROM invoices WHERE ` + invoiceFilter + `
                   ORDER BY date DESC, id
                   LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &inv.Date); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) Count(ctx context.Context, search string) (int, error) {
	const query = `SELECT COUNT(*) FROM invoices WHERE ` + invoiceFilter
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, search).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
