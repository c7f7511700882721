package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/polkiloo/invoicedash/internal/domain/model"
	"github.com/polkiloo/invoicedash/internal/domain/repository"
)

// InvoicesPath is the dashboard view listing invoices.
const InvoicesPath = "/dashboard/invoices"

// InvoicesPerPage bounds a single page of the invoices list.
const InvoicesPerPage = 6

// maxPage keeps the list offset within int range.
const maxPage = math.MaxInt/InvoicesPerPage + 1

const (
	MessageCreateFailed = "Database Error: Failed to Create Invoice."
	MessageUpdateFailed = "Database Error: Failed to Update Invoice."
	MessageDeleteFailed = "Database Error: Failed to Delete Invoice."
	MessageDeleted      = "Deleted Invoice."
)

// Revalidator marks a cached dashboard view as stale.
type Revalidator interface {
	Revalidate(path string)
}

// InvoiceUseCase implements invoice mutations and the list view they invalidate.
type InvoiceUseCase struct {
	invoices    repository.InvoiceRepository
	revalidator Revalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, revalidator Revalidator, logger *slog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices:    invoices,
		revalidator: revalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// Create validates the form and inserts a new invoice dated today (UTC).
//
// Validation failures are returned as errors. Persistence failures are reported
// through the result message and skip revalidation and redirect.
func (u *InvoiceUseCase) Create(ctx context.Context, form model.InvoiceForm) (*model.ActionResult, error) {
	valid, err := ValidateInvoiceForm(form)
	if err != nil {
		return nil, err
	}

	invoice := model.Invoice{
		CustomerID: valid.CustomerID,
		Amount:     valid.AmountInCents,
		Status:     valid.Status,
		Date:       u.now().UTC().Format(model.DateLayout),
	}

	id, err := u.invoices.Create(ctx, invoice)
	if err != nil {
		u.logger.Error("create invoice failed", slog.String("error", err.Error()))
		return &model.ActionResult{Message: MessageCreateFailed, Failed: true}, nil
	}
	u.logger.Info("invoice created", slog.String("id", id.String()), slog.Int64("amount", invoice.Amount))

	u.revalidator.Revalidate(InvoicesPath)
	return &model.ActionResult{Redirect: InvoicesPath}, nil
}

// Update overwrites customer, amount and status of the invoice. The date is kept.
// An unknown id is not reported: the statement simply matches no row. An id
// the database cannot cast is reported like any other failed statement.
func (u *InvoiceUseCase) Update(ctx context.Context, rawID string, form model.InvoiceForm) (*model.ActionResult, error) {
	valid, err := ValidateInvoiceForm(form)
	if err != nil {
		return nil, err
	}
	id, err := ParseInvoiceID(rawID)
	if err != nil {
		u.logger.Warn("update invoice rejected", slog.String("id", rawID), slog.String("error", err.Error()))
		return &model.ActionResult{Message: MessageUpdateFailed, Failed: true}, nil
	}

	matched, err := u.invoices.Update(ctx, model.Invoice{
		ID:         id,
		CustomerID: valid.CustomerID,
		Amount:     valid.AmountInCents,
		Status:     valid.Status,
	})
	if err != nil {
		u.logger.Error("update invoice failed", slog.String("id", id.String()), slog.String("error", err.Error()))
		return &model.ActionResult{Message: MessageUpdateFailed, Failed: true}, nil
	}
	if !matched {
		u.logger.Info("update matched no invoice", slog.String("id", id.String()))
	}

	u.revalidator.Revalidate(InvoicesPath)
	return &model.ActionResult{Redirect: InvoicesPath}, nil
}

// Delete removes the invoice. Deleting a missing invoice succeeds; a malformed
// id fails like any other statement.
func (u *InvoiceUseCase) Delete(ctx context.Context, rawID string) (*model.ActionResult, error) {
	id, err := ParseInvoiceID(rawID)
	if err != nil {
		u.logger.Warn("delete invoice rejected", slog.String("id", rawID), slog.String("error", err.Error()))
		return &model.ActionResult{Message: MessageDeleteFailed, Failed: true}, nil
	}

	matched, err := u.invoices.Delete(ctx, id)
	if err != nil {
		u.logger.Error("delete invoice failed", slog.String("id", id.String()), slog.String("error", err.Error()))
		return &model.ActionResult{Message: MessageDeleteFailed, Failed: true}, nil
	}
	if !matched {
		u.logger.Info("delete matched no invoice", slog.String("id", id.String()))
	}

	u.revalidator.Revalidate(InvoicesPath)
	return &model.ActionResult{Message: MessageDeleted}, nil
}

// Get returns a single invoice.
func (u *InvoiceUseCase) Get(ctx context.Context, rawID string) (*model.Invoice, error) {
	id, err := ParseInvoiceID(rawID)
	if err != nil {
		return nil, err
	}
	return u.invoices.GetByID(ctx, id)
}

// List returns one page of invoices matching query. Pages start at 1; pages
// past the addressable range yield an empty result.
func (u *InvoiceUseCase) List(ctx context.Context, query string, page int) (*model.InvoicePage, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	total, err := u.invoices.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	invoices, err := u.invoices.List(ctx, query, InvoicesPerPage, (page-1)*InvoicesPerPage)
	if err != nil {
		return nil, err
	}

	return &model.InvoicePage{
		Invoices:   invoices,
		TotalPages: (total + InvoicesPerPage - 1) / InvoicesPerPage,
	}, nil
}
