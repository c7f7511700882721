package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// InvoiceRepository describes persistence operations with invoices.
//
// Update and Delete report whether a row matched the identifier; a miss is not an error.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice model.Invoice) (uuid.UUID, error)
	Update(ctx context.Context, invoice model.Invoice) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, query string, limit, offset int) ([]model.Invoice, error)
	Count(ctx context.Context, query string) (int, error)
}
