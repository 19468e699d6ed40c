package domain

import (
	"strings"
	"time"

	apperrors "samplehub/internal/errors"
)

type StatusEntry struct {
	ID              string
	SampleRequestID string
	Seq             int
	Status          Status
	Note            *string
	ETA             *time.Time
	TrackingNumber  *string
	// PaymentIntentID is the intent an invoice_sent or sample_paid entry
	// refers to.
	PaymentIntentID *string
	CreatedAt       time.Time
	Synthetic       bool
}

const DateLayout = "2006-01-02"

// ParseETA normalizes an estimated delivery value to a calendar date at
// midnight UTC. Both plain dates and RFC 3339 timestamps are accepted; the
// calendar day is taken in the timestamp's own offset.
func ParseETA(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	if d, err := time.Parse(DateLayout, value); err == nil {
		return &d, nil
	}

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperrors.NewInvalidFormatError("eta", raw)
	}

	d := TruncateToDate(ts)
	return &d, nil
}

func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
