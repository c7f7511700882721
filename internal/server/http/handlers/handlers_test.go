package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polkiloo/invoicedash/internal/cache"
	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
	"github.com/polkiloo/invoicedash/internal/server/http/dto"
	testhelpers "github.com/polkiloo/invoicedash/internal/test"
	"github.com/polkiloo/invoicedash/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newInvoiceHandler(facade InvoiceFacade) (*InvoiceHandler, *cache.PageCache) {
	pages := cache.NewPageCache(time.Minute, discardLogger())
	return NewInvoiceHandler(facade, pages, discardLogger()), pages
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func formBody(values url.Values) (io.Reader, map[string]string) {
	return strings.NewReader(values.Encode()), map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
}

func TestCreateRedirectsAfterForm(t *testing.T) {
	customer := testhelpers.RandomASCIIString(8, 16)
	var got model.InvoiceForm
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{CreateFn: func(_ context.Context, form model.InvoiceForm) (*model.ActionResult, error) {
		got = form
		return &model.ActionResult{Redirect: "/dashboard/invoices"}, nil
	}})

	body, headers := formBody(url.Values{"customerId": {customer}, "amount": {"45.50"}, "status": {"pending"}})
	resp := performRequest(t, http.MethodPost, "/dashboard/invoices", "/dashboard/invoices", handler.Create, body, headers)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/dashboard/invoices" {
		t.Fatalf("unexpected location %q", loc)
	}
	if got != (model.InvoiceForm{CustomerID: customer, Amount: "45.50", Status: "pending"}) {
		t.Fatalf("unexpected form passed to facade: %+v", got)
	}
}

func TestCreateAcceptsJSONNumberAmount(t *testing.T) {
	var got model.InvoiceForm
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{CreateFn: func(_ context.Context, form model.InvoiceForm) (*model.ActionResult, error) {
		got = form
		return &model.ActionResult{Redirect: "/dashboard/invoices"}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/dashboard/invoices", "/dashboard/invoices", handler.Create,
		strings.NewReader(`{"customerId":"c1","amount":12.5,"status":"paid"}`),
		map[string]string{"Content-Type": "application/json"})

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	if got.Amount != "12.5" {
		t.Fatalf("unexpected amount %q", got.Amount)
	}
}

func TestCreateFailures(t *testing.T) {
	validationErr := &domainErrors.ValidationError{Fields: []domainErrors.FieldError{{Field: "status", Message: "must be one of: pending paid"}}}

	tests := []struct {
		name    string
		fn      func(context.Context, model.InvoiceForm) (*model.ActionResult, error)
		body    string
		status  int
		message string
	}{
		{
			name:    "validation",
			fn:      func(context.Context, model.InvoiceForm) (*model.ActionResult, error) { return nil, validationErr },
			body:    `{"customerId":"c1","amount":"1","status":"overdue"}`,
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
		},
		{
			name: "database",
			fn: func(context.Context, model.InvoiceForm) (*model.ActionResult, error) {
				return &model.ActionResult{Message: "Database Error: Failed to Create Invoice.", Failed: true}, nil
			},
			body:    `{"customerId":"c1","amount":"1","status":"paid"}`,
			status:  http.StatusInternalServerError,
			message: "Database Error: Failed to Create Invoice.",
		},
		{
			name:    "malformed json",
			body:    `{"customerId":`,
			status:  http.StatusBadRequest,
			message: "malformed request body",
		},
		{
			name:    "object amount",
			body:    `{"customerId":"c1","amount":{"v":1},"status":"paid"}`,
			status:  http.StatusBadRequest,
			message: "malformed request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{CreateFn: tt.fn})
			resp := performRequest(t, http.MethodPost, "/dashboard/invoices", "/dashboard/invoices", handler.Create,
				strings.NewReader(tt.body), map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			var payload map[string]any
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload["message"] != tt.message {
				t.Fatalf("unexpected message %v", payload["message"])
			}
		})
	}
}

func TestValidationErrorBody(t *testing.T) {
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{CreateFn: func(context.Context, model.InvoiceForm) (*model.ActionResult, error) {
		return nil, &domainErrors.ValidationError{Fields: []domainErrors.FieldError{
			{Field: "customerId", Message: "is required"},
			{Field: "amount", Message: "must be a number"},
		}}
	}})
	body, headers := formBody(url.Values{"amount": {"x"}})
	resp := performRequest(t, http.MethodPost, "/dashboard/invoices", "/dashboard/invoices", handler.Create, body, headers)

	var payload dto.ValidationErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []dto.FieldError{{Field: "customerId", Error: "is required"}, {Field: "amount", Error: "must be a number"}}
	if len(payload.Errors) != len(want) {
		t.Fatalf("unexpected errors %+v", payload.Errors)
	}
	for i := range want {
		if payload.Errors[i] != want[i] {
			t.Fatalf("unexpected error %d: %+v", i, payload.Errors[i])
		}
	}
}

func TestUpdatePassesPathID(t *testing.T) {
	id := uuid.NewString()
	var gotID string
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{UpdateFn: func(_ context.Context, rawID string, _ model.InvoiceForm) (*model.ActionResult, error) {
		gotID = rawID
		return &model.ActionResult{Redirect: "/dashboard/invoices"}, nil
	}})

	body, headers := formBody(url.Values{"customerId": {"c1"}, "amount": {"1"}, "status": {"paid"}})
	resp := performRequest(t, http.MethodPost, "/dashboard/invoices/:id/edit", "/dashboard/invoices/"+id+"/edit", handler.Update, body, headers)
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	if gotID != id {
		t.Fatalf("unexpected id %q", gotID)
	}
}

func TestDeleteReturnsMessage(t *testing.T) {
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{})
	resp := performRequest(t, http.MethodDelete, "/dashboard/invoices/:id", "/dashboard/invoices/"+uuid.NewString(), handler.Delete, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload dto.MessageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Message != "Deleted Invoice." {
		t.Fatalf("unexpected message %q", payload.Message)
	}
}

func TestGet(t *testing.T) {
	handler, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{})
	id := uuid.NewString()

	resp := performRequest(t, http.MethodGet, "/dashboard/invoices/:id", "/dashboard/invoices/"+id, handler.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload dto.InvoiceResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != id || payload.Amount != 4550 || payload.Date != "2026-10-17" {
		t.Fatalf("unexpected invoice %+v", payload)
	}

	resp = performRequest(t, http.MethodGet, "/dashboard/invoices/:id", "/dashboard/invoices/nope", handler.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for malformed id, got %d", resp.Code)
	}

	missing, _ := newInvoiceHandler(testhelpers.InvoiceFacadeStub{GetFn: func(context.Context, string) (*model.Invoice, error) {
		return nil, domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodGet, "/dashboard/invoices/:id", "/dashboard/invoices/"+id, missing.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListUsesPageCache(t *testing.T) {
	calls := 0
	handler, pages := newInvoiceHandler(testhelpers.InvoiceFacadeStub{ListFn: func(_ context.Context, query string, page int) (*model.InvoicePage, error) {
		calls++
		if query != "c1" || page != 2 {
			t.Fatalf("unexpected query %q page %d", query, page)
		}
		return &model.InvoicePage{Invoices: []model.Invoice{{CustomerID: "c1", Amount: 5, Status: model.InvoiceStatusPaid, Date: "2026-10-17"}}, TotalPages: 2}, nil
	}})

	target := "/dashboard/invoices?query=c1&page=2"
	first := performRequest(t, http.MethodGet, "/dashboard/invoices", target, handler.List, nil, nil)
	if first.Code != http.StatusOK || first.Header().Get(CacheHeader) != "MISS" {
		t.Fatalf("expected cache miss, got %d %q", first.Code, first.Header().Get(CacheHeader))
	}

	second := performRequest(t, http.MethodGet, "/dashboard/invoices", target, handler.List, nil, nil)
	if second.Header().Get(CacheHeader) != "HIT" {
		t.Fatalf("expected cache hit, got %q", second.Header().Get(CacheHeader))
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatal("expected cached body to match")
	}
	if calls != 1 {
		t.Fatalf("expected one facade call, got %d", calls)
	}

	pages.Revalidate("/dashboard/invoices")
	third := performRequest(t, http.MethodGet, "/dashboard/invoices", target, handler.List, nil, nil)
	if third.Header().Get(CacheHeader) != "MISS" || calls != 2 {
		t.Fatalf("expected revalidated view to be rebuilt")
	}

	var payload dto.InvoiceListResponse
	if err := json.Unmarshal(third.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TotalPages != 2 || len(payload.Invoices) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestListRenderedDuringWriteIsNotCached(t *testing.T) {
	var pages *cache.PageCache
	calls := 0
	handler, pages := newInvoiceHandler(testhelpers.InvoiceFacadeStub{ListFn: func(context.Context, string, int) (*model.InvoicePage, error) {
		calls++
		if calls == 1 {
			// a create commits while this page is being read
			pages.Revalidate(usecase.InvoicesPath)
		}
		return &model.InvoicePage{TotalPages: calls}, nil
	}})

	first := performRequest(t, http.MethodGet, "/dashboard/invoices", "/dashboard/invoices", handler.List, nil, nil)
	if first.Header().Get(CacheHeader) != "MISS" {
		t.Fatalf("expected cache miss, got %q", first.Header().Get(CacheHeader))
	}

	second := performRequest(t, http.MethodGet, "/dashboard/invoices", "/dashboard/invoices", handler.List, nil, nil)
	if second.Header().Get(CacheHeader) != "MISS" {
		t.Fatalf("expected list read before the write to be discarded, got %q", second.Header().Get(CacheHeader))
	}
	if calls != 2 {
		t.Fatalf("expected the list to be read again, got %d reads", calls)
	}

	var payload dto.InvoiceListResponse
	if err := json.Unmarshal(second.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TotalPages != 2 {
		t.Fatalf("expected fresh page, got %+v", payload)
	}

	third := performRequest(t, http.MethodGet, "/dashboard/invoices", "/dashboard/invoices", handler.List, nil, nil)
	if third.Header().Get(CacheHeader) != "HIT" {
		t.Fatalf("expected fresh page to be cached, got %q", third.Header().Get(CacheHeader))
	}
}

func TestListFailureIsNotCached(t *testing.T) {
	handler, pages := newInvoiceHandler(testhelpers.InvoiceFacadeStub{ListFn: func(context.Context, string, int) (*model.InvoicePage, error) {
		return nil, errors.New("db down")
	}})
	resp := performRequest(t, http.MethodGet, "/dashboard/invoices", "/dashboard/invoices", handler.List, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if pages.Len() != 0 {
		t.Fatal("expected nothing cached")
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/ping", "/ping", NewHealthHandler(testhelpers.HealthCheckerStub{}).Ping, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/ping", "/ping", NewHealthHandler(testhelpers.HealthCheckerStub{Down: true}).Ping, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}
