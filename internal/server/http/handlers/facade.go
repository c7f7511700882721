package handlers

import (
	"context"

	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// InvoiceFacade describes invoice operations exposed via HTTP.
type InvoiceFacade interface {
	CreateInvoice(ctx context.Context, form model.InvoiceForm) (*model.ActionResult, error)
	UpdateInvoice(ctx context.Context, id string, form model.InvoiceForm) (*model.ActionResult, error)
	DeleteInvoice(ctx context.Context, id string) (*model.ActionResult, error)
	Invoice(ctx context.Context, id string) (*model.Invoice, error)
	Invoices(ctx context.Context, query string, page int) (*model.InvoicePage, error)
}

// PageStore caches rendered list responses per path and query variant.
// Get reports the path generation; Set ignores bodies rendered for an older one.
type PageStore interface {
	Get(path, variant string) ([]byte, uint64, bool)
	Set(path, variant string, gen uint64, body []byte) bool
}

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
