package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SampleRequest struct {
	ID                 string
	BrandID            string
	FactoryID          string
	RepID              string
	Status             Status
	ProductDescription string
	Quantity           int
	PreferredMOQ       *int
	DeliveryAddress    string
	FileURLs           []string
	PaymentIntentID    *string
	Invoice            *InvoiceDetails
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type InvoiceDetails struct {
	Amount   decimal.Decimal
	Currency string
	DueDate  time.Time
}

// InitialEntry is the synthetic "requested" ledger entry derived from the
// sample's own creation fields.
func (s SampleRequest) InitialEntry() StatusEntry {
	return StatusEntry{
		ID:              s.ID + ":requested",
		SampleRequestID: s.ID,
		Seq:             0,
		Status:          StatusRequested,
		CreatedAt:       s.CreatedAt,
		Synthetic:       true,
	}
}
