package usecase

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/invoicedash/internal/domain/errors"
	"github.com/polkiloo/invoicedash/internal/domain/model"
)

// ValidInvoice is a validated invoice form with the amount converted to cents.
type ValidInvoice struct {
	CustomerID    string
	AmountInCents int64
	Status        model.InvoiceStatus
}

type invoiceFields struct {
	CustomerID string `field:"customerId" validate:"required"`
	Amount     string `field:"amount"`
	Status     string `field:"status" validate:"required,oneof=pending paid"`
}

var (
	validate = newValidator()

	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// ValidateInvoiceForm checks raw form fields and coerces them into a ValidInvoice.
// A blank amount is read as zero. It returns *domainErrors.ValidationError
// listing every rejected field.
func ValidateInvoiceForm(form model.InvoiceForm) (ValidInvoice, error) {
	fields := invoiceFields{
		CustomerID: strings.TrimSpace(form.CustomerID),
		Amount:     strings.TrimSpace(form.Amount),
		Status:     form.Status,
	}

	var problems []domainErrors.FieldError
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ValidInvoice{}, err
		}
		for _, fe := range verrs {
			problems = append(problems, domainErrors.FieldError{Field: fe.Field(), Message: describe(fe)})
		}
	}

	// a blank amount coerces to zero
	var cents int64
	if fields.Amount != "" {
		var msg string
		cents, msg = parseCents(fields.Amount)
		if msg != "" {
			problems = append(problems, domainErrors.FieldError{Field: "amount", Message: msg})
		}
	}

	if len(problems) > 0 {
		return ValidInvoice{}, &domainErrors.ValidationError{Fields: problems}
	}

	return ValidInvoice{
		CustomerID:    fields.CustomerID,
		AmountInCents: cents,
		Status:        model.InvoiceStatus(fields.Status),
	}, nil
}

// ParseInvoiceID validates an invoice identifier taken from the request path.
func ParseInvoiceID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, &domainErrors.ValidationError{Fields: []domainErrors.FieldError{
			{Field: "id", Message: "must be a valid UUID"},
		}}
	}
	return id, nil
}

// AmountToCents converts a decimal amount to minor currency units, rounding half away from zero.
func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func parseCents(raw string) (int64, string) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, "must be a number"
	}
	if amount.IsNegative() {
		return 0, "must be greater than or equal to 0"
	}
	if amount.Mul(hundred).Round(0).GreaterThan(maxCents) {
		return 0, "is too large"
	}
	return AmountToCents(amount), ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
