package test

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// InvoiceFacadeStub provides controllable behaviour for invoice endpoints.
type InvoiceFacadeStub struct {
	CreateFn func(context.Context, model.InvoiceForm) (*model.ActionResult, error)
	UpdateFn func(context.Context, string, model.InvoiceForm) (*model.ActionResult, error)
	DeleteFn func(context.Context, string) (*model.ActionResult, error)
	GetFn    func(context.Context, string) (*model.Invoice, error)
	ListFn   func(context.Context, string, int) (*model.InvoicePage, error)
}

// CreateInvoice delegates to override or redirects to the list view.
func (s InvoiceFacadeStub) CreateInvoice(ctx context.Context, form model.InvoiceForm) (*model.ActionResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, form)
	}
	return &model.ActionResult{Redirect: "/dashboard/invoices"}, nil
}

// UpdateInvoice delegates to override or redirects to the list view.
func (s InvoiceFacadeStub) UpdateInvoice(ctx context.Context, id string, form model.InvoiceForm) (*model.ActionResult, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, form)
	}
	return &model.ActionResult{Redirect: "/dashboard/invoices"}, nil
}

// DeleteInvoice delegates to override or reports success.
func (s InvoiceFacadeStub) DeleteInvoice(ctx context.Context, id string) (*model.ActionResult, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return &model.ActionResult{Message: "Deleted Invoice."}, nil
}

// Invoice returns a fixed pending invoice.
func (s InvoiceFacadeStub) Invoice(ctx context.Context, id string) (*model.Invoice, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, &domainErrors.ValidationError{Fields: []domainErrors.FieldError{{Field: "id", Message: "must be a valid UUID"}}}
	}
	return &model.Invoice{ID: parsed, CustomerID: "c1", Amount: 4550, Status: model.InvoiceStatusPending, Date: "2026-10-17"}, nil
}

// Invoices returns a single-page listing.
func (s InvoiceFacadeStub) Invoices(ctx context.Context, query string, page int) (*model.InvoicePage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, query, page)
	}
	return &model.InvoicePage{
		Invoices:   []model.Invoice{{ID: uuid.Nil, CustomerID: "c1", Amount: 100, Status: model.InvoiceStatusPaid, Date: "2026-10-17"}},
		TotalPages: 1,
	}, nil
}

// HealthCheckerStub reports configured health status.
type HealthCheckerStub struct {
	Down bool
}

// HealthCheck fails when Down is set.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	if s.Down {
		return errors.New("database unavailable")
	}
	return nil
}
