package model

import "github.com/google/uuid"

// InvoiceStatus describes payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// DateLayout is the calendar date format stored in the invoices table.
const DateLayout = "2006-01-02"

// Invoice describes a billing record issued to a customer.
// Amount is stored in minor currency units (cents).
type Invoice struct {
	ID         uuid.UUID
	CustomerID string
	Amount     int64
	Status     InvoiceStatus
	Date       string
}

// InvoiceForm carries raw submitted form fields before validation.
type InvoiceForm struct {
	CustomerID string
	Amount     string
	Status     string
}

// InvoicePage is a single page of the filtered invoices list.
type InvoicePage struct {
	Invoices   []Invoice
	TotalPages int
}
