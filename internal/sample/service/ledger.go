package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"samplehub/internal/domain"
)

type HistoryRepository interface {
	NextSeq(ctx context.Context, sampleID string) (int, error)
	Insert(ctx context.Context, e domain.StatusEntry) error
	ListBySample(ctx context.Context, sampleID string) ([]domain.StatusEntry, error)
}

type SampleReader interface {
	FindByID(ctx context.Context, id string) (*domain.SampleRequest, error)
}

type EntryInput struct {
	Status          domain.Status
	Note            *string
	ETA             string
	TrackingNumber  *string
	PaymentIntentID *string
}

// Ledger is the append-only status history of sample requests.
type Ledger struct {
	history HistoryRepository
	samples SampleReader
	now     func() time.Time
}

func NewLedger(history HistoryRepository, samples SampleReader) *Ledger {
	return &Ledger{
		history: history,
		samples: samples,
		now:     time.Now,
	}
}

// Append writes one entry and returns it with id, sequence position and
// timestamp assigned. Run it inside the transition's transaction so the entry
// and the status update commit together.
func (l *Ledger) Append(ctx context.Context, sampleID string, in EntryInput) (*domain.StatusEntry, error) {
	eta, err := domain.ParseETA(in.ETA)
	if err != nil {
		return nil, err
	}

	seq, err := l.history.NextSeq(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	entry := domain.StatusEntry{
		ID:              uuid.NewString(),
		SampleRequestID: sampleID,
		Seq:             seq,
		Status:          in.Status,
		Note:            emptyToNil(in.Note),
		ETA:             eta,
		TrackingNumber:  emptyToNil(in.TrackingNumber),
		PaymentIntentID: emptyToNil(in.PaymentIntentID),
		CreatedAt:       l.now().UTC(),
	}

	if err := l.history.Insert(ctx, entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// List returns the history oldest first. When no explicit "requested" entry
// exists one is synthesized from the sample's creation fields.
func (l *Ledger) List(ctx context.Context, sampleID string) ([]domain.StatusEntry, error) {
	sample, err := l.samples.FindByID(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	entries, err := l.history.ListBySample(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Status == domain.StatusRequested {
			return entries, nil
		}
	}

	out := make([]domain.StatusEntry, 0, len(entries)+1)
	out = append(out, sample.InitialEntry())
	return append(out, entries...), nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
