package domain

import "time"

// Order is a bulk order derived from an approved sample request.
type Order struct {
	ID              string
	SampleRequestID string
	BrandID         string
	FactoryID       string
	RepID           string
	Quantity        int
	Status          string
	CreatedAt       time.Time
}

const (
	OrderStatusPending  = "pending"
	OrderStatusCreated  = "created"
	OrderStatusCanceled = "canceled"
)

// NewDerivedOrder builds the order for an approved sample. An explicit
// quantity wins, then the preferred MOQ, then the sample quantity.
func NewDerivedOrder(id string, sample SampleRequest, quantity *int, now time.Time) Order {
	qty := sample.Quantity
	switch {
	case quantity != nil && *quantity > 0:
		qty = *quantity
	case sample.PreferredMOQ != nil && *sample.PreferredMOQ > 0:
		qty = *sample.PreferredMOQ
	}

	return Order{
		ID:              id,
		SampleRequestID: sample.ID,
		BrandID:         sample.BrandID,
		FactoryID:       sample.FactoryID,
		RepID:           sample.RepID,
		Quantity:        qty,
		Status:          OrderStatusPending,
		CreatedAt:       now,
	}
}
