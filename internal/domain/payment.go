package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "samplehub/internal/errors"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCanceled PaymentStatus = "canceled"
)

type PaymentCustomer struct {
	BrandID            string
	ProviderCustomerID string
	CreatedAt          time.Time
}

type PaymentRecord struct {
	ID              string
	SampleRequestID string
	BrandID         string
	CustomerID      string
	PaymentIntentID string
	Amount          decimal.Decimal
	Currency        string
	DueDate         time.Time
	Status          PaymentStatus
	CreatedAt       time.Time
	PaidAt          *time.Time
}

// PaymentIntent is the processor-side handle returned to the client so it can
// collect funds.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// zeroDecimalCurrencies are charged in whole units by the processor.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true, "mga": true,
	"pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// CurrencyExponent returns the number of decimal places of currency's minor
// unit.
func CurrencyExponent(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToLower(strings.TrimSpace(currency))] {
		return 0
	}
	return 2
}

// MinorUnits converts amount to the processor's smallest unit of currency.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(CurrencyExponent(currency)).Round(0).IntPart()
}

// InvoiceRequest carries what the processor needs to open a payment intent.
type InvoiceRequest struct {
	Amount   decimal.Decimal
	Currency string
	DueDate  time.Time
}

// Validate requires a positive amount with no more decimal places than the
// currency's minor unit, a currency, and a due date strictly after today's
// date in UTC.
func (r InvoiceRequest) Validate(now time.Time) error {
	if !r.Amount.IsPositive() {
		return apperrors.NewMissingRequiredFieldError("amount", "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Currency) == "" {
		return apperrors.NewMissingRequiredFieldError("currency", "currency is required")
	}
	if MinorUnits(r.Amount, r.Currency) <= 0 {
		return apperrors.NewMissingRequiredFieldError("amount", "amount is below the currency's smallest unit")
	}
	if exp := CurrencyExponent(r.Currency); !r.Amount.Equal(r.Amount.Truncate(exp)) {
		return apperrors.NewInvalidFormatError("amount", r.Amount.String())
	}
	if !TruncateToDate(r.DueDate).After(TruncateToDate(now.UTC())) {
		return apperrors.NewMissingRequiredFieldError("dueDate", "due date must be in the future")
	}
	return nil
}
