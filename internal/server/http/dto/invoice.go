package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// Amount accepts a decimal amount submitted either as text or as a JSON number.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = ""
	case string:
		*a = Amount(v)
	case json.Number:
		*a = Amount(v.String())
	default:
		return errors.New("amount must be a string or a number")
	}
	return nil
}

// InvoiceForm describes the invoice create/edit payload.
type InvoiceForm struct {
	CustomerID string `form:"customerId" json:"customerId"`
	Amount     Amount `form:"amount" json:"amount"`
	Status     string `form:"status" json:"status"`
}

// ToModel converts the payload into raw form fields.
func (f InvoiceForm) ToModel() model.InvoiceForm {
	return model.InvoiceForm{
		CustomerID: f.CustomerID,
		Amount:     string(f.Amount),
		Status:     f.Status,
	}
}

// InvoiceResponse represents a stored invoice.
type InvoiceResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// NewInvoiceResponse maps a domain invoice.
func NewInvoiceResponse(inv model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID.String(),
		CustomerID: inv.CustomerID,
		Amount:     inv.Amount,
		Status:     string(inv.Status),
		Date:       inv.Date,
	}
}

// InvoiceListResponse is one page of the invoices view.
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	TotalPages int               `json:"totalPages"`
}
