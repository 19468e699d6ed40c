package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

// memStore is an in-memory stand-in for the sample and history tables. Its
// RunInTx restores the previous state when fn fails.
type memStore struct {
	mu      sync.Mutex
	samples map[string]domain.SampleRequest
	history map[string][]domain.StatusEntry

	UpdateLifecycleErr error
}

func newMemStore(samples ...domain.SampleRequest) *memStore {
	s := &memStore{
		samples: make(map[string]domain.SampleRequest),
		history: make(map[string][]domain.StatusEntry),
	}
	for _, sample := range samples {
		s.samples[sample.ID] = sample
	}
	return s
}

func (s *memStore) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.mu.Lock()
	samples := make(map[string]domain.SampleRequest, len(s.samples))
	for k, v := range s.samples {
		samples[k] = v
	}
	history := make(map[string][]domain.StatusEntry, len(s.history))
	for k, v := range s.history {
		history[k] = append([]domain.StatusEntry(nil), v...)
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.samples = samples
		s.history = history
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) FindByID(ctx context.Context, id string) (*domain.SampleRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sample, ok := s.samples[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sample request with id %s not found", id))
	}
	return &sample, nil
}

func (s *memStore) FindByIDForUpdate(ctx context.Context, id string) (*domain.SampleRequest, error) {
	return s.FindByID(ctx, id)
}

func (s *memStore) UpdateLifecycle(ctx context.Context, sample domain.SampleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateLifecycleErr != nil {
		return s.UpdateLifecycleErr
	}
	s.samples[sample.ID] = sample
	return nil
}

func (s *memStore) NextSeq(ctx context.Context, sampleID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := 0
	for _, e := range s.history[sampleID] {
		if e.Seq > last {
			last = e.Seq
		}
	}
	return last + 1, nil
}

func (s *memStore) Insert(ctx context.Context, e domain.StatusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.history[e.SampleRequestID] {
		if existing.Seq == e.Seq {
			return fmt.Errorf("duplicate seq %d for %s", e.Seq, e.SampleRequestID)
		}
	}
	s.history[e.SampleRequestID] = append(s.history[e.SampleRequestID], e)
	return nil
}

func (s *memStore) ListBySample(ctx context.Context, sampleID string) ([]domain.StatusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.StatusEntry(nil), s.history[sampleID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *memStore) sample(id string) domain.SampleRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples[id]
}

type mockPaymentGate struct {
	RequestInvoiceFunc func(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error)
	MarkPaidFunc       func(ctx context.Context, sample domain.SampleRequest) error

	mu        sync.Mutex
	requested int
	canceled  []string
}

func (m *mockPaymentGate) RequestInvoice(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error) {
	m.mu.Lock()
	m.requested++
	m.mu.Unlock()
	return m.RequestInvoiceFunc(ctx, sample, req)
}

func (m *mockPaymentGate) MarkPaid(ctx context.Context, sample domain.SampleRequest) error {
	if m.MarkPaidFunc == nil {
		return nil
	}
	return m.MarkPaidFunc(ctx, sample)
}

func (m *mockPaymentGate) CancelIntent(ctx context.Context, intentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canceled = append(m.canceled, intentID)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
}

func (n *recordingNotifier) Enqueue(event domain.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
