package test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// InvoiceRepositoryStub keeps invoices in memory and records every statement issued.
type InvoiceRepositoryStub struct {
	CreateErr error
	UpdateErr error
	DeleteErr error
	ReadErr   error

	mu      sync.Mutex
	rows    map[uuid.UUID]model.Invoice
	Calls   []string
	Offsets []int
}

// NewInvoiceRepositoryStub constructs an empty stub repository.
func NewInvoiceRepositoryStub() *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{rows: make(map[uuid.UUID]model.Invoice)}
}

// Seed stores invoice as if it had been inserted earlier.
func (s *InvoiceRepositoryStub) Seed(invoice model.Invoice) model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	s.rows[invoice.ID] = invoice
	return invoice
}

// Rows returns a snapshot of stored invoices.
func (s *InvoiceRepositoryStub) Rows() []model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Invoice, 0, len(s.rows))
	for _, inv := range s.rows {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result
}

// Create stores the invoice under a fresh identifier.
func (s *InvoiceRepositoryStub) Create(ctx context.Context, invoice model.Invoice) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.Calls = append(s.Calls, "create")
	if s.CreateErr != nil {
		return uuid.Nil, s.CreateErr
	}
	invoice.ID = uuid.New()
	s.rows[invoice.ID] = invoice
	return invoice.ID, nil
}

// Update overwrites customer, amount and status of a stored invoice.
func (s *InvoiceRepositoryStub) Update(ctx context.Context, invoice model.Invoice) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.Calls = append(s.Calls, "update")
	if s.UpdateErr != nil {
		return false, s.UpdateErr
	}
	existing, ok := s.rows[invoice.ID]
	if !ok {
		return false, nil
	}
	existing.CustomerID = invoice.CustomerID
	existing.Amount = invoice.Amount
	existing.Status = invoice.Status
	s.rows[invoice.ID] = existing
	return true, nil
}

// Delete removes a stored invoice.
func (s *InvoiceRepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.Calls = append(s.Calls, "delete")
	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	_, ok := s.rows[id]
	delete(s.rows, id)
	return ok, nil
}

// GetByID returns a stored invoice or not found.
func (s *InvoiceRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "get")
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	inv, ok := s.rows[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &inv, nil
}

// List filters by customer id or status substring, newest first.
func (s *InvoiceRepositoryStub) List(ctx context.Context, query string, limit, offset int) ([]model.Invoice, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, "list")
	s.Offsets = append(s.Offsets, offset)
	err := s.ReadErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	matched := s.matching(query)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// Count returns the number of invoices matching query.
func (s *InvoiceRepositoryStub) Count(ctx context.Context, query string) (int, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, "count")
	err := s.ReadErr
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return len(s.matching(query)), nil
}

func (s *InvoiceRepositoryStub) matching(query string) []model.Invoice {
	var result []model.Invoice
	for _, inv := range s.Rows() {
		if query == "" || strings.Contains(inv.CustomerID, query) || strings.Contains(string(inv.Status), query) {
			result = append(result, inv)
		}
	}
	return result
}

func (s *InvoiceRepositoryStub) init() {
	if s.rows == nil {
		s.rows = make(map[uuid.UUID]model.Invoice)
	}
}

// RevalidatorRecorder records revalidated paths.
type RevalidatorRecorder struct {
	mu    sync.Mutex
	Paths []string
}

// Revalidate stores path.
func (r *RevalidatorRecorder) Revalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Paths = append(r.Paths, path)
}

// Count returns how many times revalidation was requested.
func (r *RevalidatorRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Paths)
}
