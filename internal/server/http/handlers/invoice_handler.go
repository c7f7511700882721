package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
	"github.com/polkiloo/invoicedash/internal/server/http/dto"
	"github.com/polkiloo/invoicedash/internal/usecase"
)

// CacheHeader reports whether the list response was served from the page cache.
const CacheHeader = "X-Cache"

// InvoiceHandler manages invoice endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
	pages  PageStore
	logger *slog.Logger
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade, pages PageStore, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{facade: facade, pages: pages, logger: logger}
}

// Create handles POST /dashboard/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.InvoiceForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "malformed request body"})
		return
	}

	res, err := h.facade.CreateInvoice(c.Request.Context(), req.ToModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeActionResult(c, res)
}

// Update handles PUT /dashboard/invoices/:id and POST /dashboard/invoices/:id/edit.
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req dto.InvoiceForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "malformed request body"})
		return
	}

	res, err := h.facade.UpdateInvoice(c.Request.Context(), c.Param("id"), req.ToModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeActionResult(c, res)
}

// Delete handles DELETE /dashboard/invoices/:id and POST /dashboard/invoices/:id/delete.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	res, err := h.facade.DeleteInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeActionResult(c, res)
}

// Get handles GET /dashboard/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.facade.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrValidation) {
			err = domainErrors.ErrNotFound
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInvoiceResponse(*invoice))
}

// List handles GET /dashboard/invoices, serving repeated queries from the page cache.
func (h *InvoiceHandler) List(c *gin.Context) {
	variant := c.Request.URL.RawQuery
	body, gen, ok := h.pages.Get(usecase.InvoicesPath, variant)
	if ok {
		c.Header(CacheHeader, "HIT")
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	result, err := h.facade.Invoices(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := dto.InvoiceListResponse{
		Invoices:   make([]dto.InvoiceResponse, 0, len(result.Invoices)),
		TotalPages: result.TotalPages,
	}
	for _, inv := range result.Invoices {
		resp.Invoices = append(resp.Invoices, dto.NewInvoiceResponse(inv))
	}

	body, err = json.Marshal(resp)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !h.pages.Set(usecase.InvoicesPath, variant, gen, body) {
		h.logger.Debug("list revalidated during render, not cached", slog.String("variant", variant))
	}

	c.Header(CacheHeader, "MISS")
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
}

func writeActionResult(c *gin.Context, res *model.ActionResult) {
	switch {
	case res.Redirect != "":
		c.Redirect(http.StatusSeeOther, res.Redirect)
	case res.Failed:
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: res.Message})
	default:
		c.JSON(http.StatusOK, dto.MessageResponse{Message: res.Message})
	}
}

func (h *InvoiceHandler) writeError(c *gin.Context, err error) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		resp := dto.ValidationErrorResponse{Message: "Validation failed", Errors: make([]dto.FieldError, 0, len(verr.Fields))}
		for _, f := range verr.Fields {
			resp.Errors = append(resp.Errors, dto.FieldError{Field: f.Field, Error: f.Message})
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Invoice not found."})
	default:
		h.logger.Error("invoice request failed", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "internal server error"})
	}
}
