package app

import (
	"context"

	"github.com/polkiloo/invoicedash/internal/domain/model"
	"github.com/polkiloo/invoicedash/internal/usecase"
)

// InvoiceFacade exposes invoice operations to the transport layer.
type InvoiceFacade struct {
	invoices *usecase.InvoiceUseCase
}

func NewInvoiceFacade(invoices *usecase.InvoiceUseCase) *InvoiceFacade {
	return &InvoiceFacade{invoices: invoices}
}

func (f *InvoiceFacade) CreateInvoice(ctx context.Context, form model.InvoiceForm) (*model.ActionResult, error) {
	return f.invoices.Create(ctx, form)
}

func (f *InvoiceFacade) UpdateInvoice(ctx context.Context, id string, form model.InvoiceForm) (*model.ActionResult, error) {
	return f.invoices.Update(ctx, id, form)
}

func (f *InvoiceFacade) DeleteInvoice(ctx context.Context, id string) (*model.ActionResult, error) {
	return f.invoices.Delete(ctx, id)
}

func (f *InvoiceFacade) Invoice(ctx context.Context, id string) (*model.Invoice, error) {
	return f.invoices.Get(ctx, id)
}

func (f *InvoiceFacade) Invoices(ctx context.Context, query string, page int) (*model.InvoicePage, error) {
	return f.invoices.List(ctx, query, page)
}
