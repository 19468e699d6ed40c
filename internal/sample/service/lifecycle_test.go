package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

type lifecycleFixture struct {
	store    *memStore
	gate     *mockPaymentGate
	notifier *recordingNotifier
	machine  *Lifecycle
}

func newLifecycleFixture(status domain.Status) *lifecycleFixture {
	store := newMemStore(domain.SampleRequest{
		ID:        "s-1",
		BrandID:   "b-1",
		FactoryID: "f-1",
		RepID:     "r-1",
		Status:    status,
		Quantity:  10,
		CreatedAt: time.Now().Add(-time.Hour),
	})
	gate := &mockPaymentGate{
		RequestInvoiceFunc: func(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error) {
			return &domain.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
		},
	}
	notifier := &recordingNotifier{}
	ledger := NewLedger(store, store)

	return &lifecycleFixture{
		store:    store,
		gate:     gate,
		notifier: notifier,
		machine:  NewLifecycle(store, store, ledger, gate, notifier, zap.NewNop()),
	}
}

func (f *lifecycleFixture) history(t *testing.T) []domain.StatusEntry {
	entries, err := f.store.ListBySample(context.Background(), "s-1")
	require.NoError(t, err)
	return entries
}

func tomorrow() time.Time {
	return time.Now().UTC().AddDate(0, 0, 1)
}

func TestTransition_RecordsEntryAndStatus(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	result, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInReview, TransitionFields{Note: strPtr("checking leather grade")})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInReview, result.Entry.Status)
	assert.Equal(t, 1, result.Entry.Seq)
	assert.Equal(t, "checking leather grade", *result.Entry.Note)
	assert.Equal(t, domain.StatusInReview, f.store.sample("s-1").Status)

	entries := f.history(t)
	require.Len(t, entries, 1)
	assert.Equal(t, f.store.sample("s-1").Status, entries[len(entries)-1].Status)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, domain.EventStatusChanged, f.notifier.events[0].Kind)
	assert.Equal(t, domain.StatusInReview, f.notifier.events[0].Status)
}

func TestTransition_ForwardSkipAllowed(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInProduction, TransitionFields{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, f.store.sample("s-1").Status)
}

func TestTransition_FromDeliveredAlwaysFails(t *testing.T) {
	targets := []domain.Status{
		domain.StatusRequested, domain.StatusInvoiceSent, domain.StatusSamplePaid, domain.StatusInProduction,
		domain.StatusShipped, domain.StatusDelivered, domain.StatusInReview, domain.StatusApproved, domain.StatusRejected,
	}

	for _, target := range targets {
		t.Run(string(target), func(t *testing.T) {
			f := newLifecycleFixture(domain.StatusDelivered)

			_, err := f.machine.Transition(context.Background(), "s-1", target, TransitionFields{PaymentIntentID: strPtr("pi_x")})

			_, ok := apperrors.IsInvalidTransitionError(err)
			assert.True(t, ok)
			assert.Empty(t, f.history(t))
			assert.Equal(t, 0, f.notifier.count())
		})
	}
}

func TestTransition_BackwardFails(t *testing.T) {
	f := newLifecycleFixture(domain.StatusShipped)

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInProduction, TransitionFields{})

	te, ok := apperrors.IsInvalidTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, "shipped", te.From)
	assert.Equal(t, domain.StatusShipped, f.store.sample("s-1").Status)
}

func TestTransition_UnknownStatus(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	_, err := f.machine.Transition(context.Background(), "s-1", domain.Status("teleported"), TransitionFields{})

	_, ok := apperrors.IsInvalidTransitionError(err)
	assert.True(t, ok)
}

func TestTransition_SampleNotFound(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	_, err := f.machine.Transition(context.Background(), "nope", domain.StatusInReview, TransitionFields{})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransition_InvoiceRequestsPaymentIntent(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)
	var gotReq domain.InvoiceRequest
	f.gate.RequestInvoiceFunc = func(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error) {
		gotReq = req
		return &domain.PaymentIntent{ID: "pi_250", ClientSecret: "pi_250_secret"}, nil
	}

	due := tomorrow()
	result, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, TransitionFields{
		Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: due},
	})

	require.NoError(t, err)
	require.NotNil(t, result.Intent)
	assert.Equal(t, "pi_250", result.Intent.ID)
	assert.True(t, decimal.NewFromInt(250).Equal(gotReq.Amount))

	sample := f.store.sample("s-1")
	assert.Equal(t, domain.StatusInvoiceSent, sample.Status)
	require.NotNil(t, sample.PaymentIntentID)
	assert.Equal(t, "pi_250", *sample.PaymentIntentID)
	require.NotNil(t, sample.Invoice)
	assert.Equal(t, "usd", sample.Invoice.Currency)

	require.NotNil(t, result.Entry.PaymentIntentID)
	assert.Equal(t, "pi_250", *result.Entry.PaymentIntentID)

	listed, err := NewLedger(f.store, f.store).List(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, domain.StatusInvoiceSent, listed[1].Status)
	require.NotNil(t, listed[1].PaymentIntentID)
	assert.Equal(t, "pi_250", *listed[1].PaymentIntentID)
	assert.Nil(t, listed[0].PaymentIntentID)
}

func TestTransition_InvoiceWithSuppliedIntent(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	result, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, TransitionFields{PaymentIntentID: strPtr("pi_external")})

	require.NoError(t, err)
	assert.Equal(t, 0, f.gate.requested)
	assert.Equal(t, "pi_external", *f.store.sample("s-1").PaymentIntentID)
	require.NotNil(t, result.Entry.PaymentIntentID)
	assert.Equal(t, "pi_external", *result.Entry.PaymentIntentID)
}

func TestTransition_InvoiceValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields TransitionFields
	}{
		{"no intent and no invoice", TransitionFields{}},
		{"zero amount", TransitionFields{Invoice: &domain.InvoiceRequest{Amount: decimal.Zero, Currency: "usd", DueDate: tomorrow()}}},
		{"below one cent", TransitionFields{Invoice: &domain.InvoiceRequest{Amount: decimal.RequireFromString("0.004"), Currency: "usd", DueDate: tomorrow()}}},
		{"past due date", TransitionFields{Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: time.Now().AddDate(0, 0, -1)}}},
		{"due today", TransitionFields{Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: time.Now().UTC()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture(domain.StatusRequested)

			_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, tt.fields)

			_, ok := apperrors.IsMissingRequiredFieldError(err)
			assert.True(t, ok, "got %v", err)
			assert.Equal(t, 0, f.gate.requested, "processor must not be contacted")
			assert.Empty(t, f.history(t))
			assert.Equal(t, domain.StatusRequested, f.store.sample("s-1").Status)
		})
	}
}

func TestTransition_GatewayErrorAbortsInvoice(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)
	f.gate.RequestInvoiceFunc = func(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error) {
		return nil, apperrors.NewPaymentGatewayError("creating payment intent", errors.New("processor down"))
	}

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, TransitionFields{
		Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: tomorrow()},
	})

	_, ok := apperrors.IsPaymentGatewayError(err)
	assert.True(t, ok)
	assert.Empty(t, f.history(t))
	assert.Nil(t, f.store.sample("s-1").PaymentIntentID)
	assert.Empty(t, f.gate.canceled)
	assert.Equal(t, 0, f.notifier.count())
}

func TestTransition_CommitFailureCancelsCreatedIntent(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)
	f.store.UpdateLifecycleErr = errors.New("connection reset")

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, TransitionFields{
		Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: tomorrow()},
	})

	require.Error(t, err)
	assert.Equal(t, []string{"pi_123"}, f.gate.canceled)
	assert.Empty(t, f.history(t), "ledger entry must roll back with the status update")
	assert.Equal(t, domain.StatusRequested, f.store.sample("s-1").Status)
}

func TestTransition_MalformedETA(t *testing.T) {
	f := newLifecycleFixture(domain.StatusInProduction)

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusShipped, TransitionFields{ETA: "friday"})

	_, ok := apperrors.IsInvalidFormatError(err)
	assert.True(t, ok)
	assert.Empty(t, f.history(t))
}

func TestTransition_ShippedWithTracking(t *testing.T) {
	f := newLifecycleFixture(domain.StatusInProduction)

	result, err := f.machine.Transition(context.Background(), "s-1", domain.StatusShipped, TransitionFields{
		ETA:            "2026-12-01",
		TrackingNumber: strPtr("1Z999AA10123456784"),
	})

	require.NoError(t, err)
	require.NotNil(t, result.Entry.ETA)
	assert.Equal(t, "2026-12-01", result.Entry.ETA.Format(domain.DateLayout))
	assert.Equal(t, "1Z999AA10123456784", *result.Entry.TrackingNumber)
}

func TestTransition_SamplePaidRequiresIntent(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)

	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusSamplePaid, TransitionFields{})

	me, ok := apperrors.IsMissingRequiredFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "paymentIntentId", me.Field)
}

func TestTransition_SamplePaidMarksPayment(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)
	_, err := f.machine.Transition(context.Background(), "s-1", domain.StatusInvoiceSent, TransitionFields{
		Invoice: &domain.InvoiceRequest{Amount: decimal.NewFromInt(250), Currency: "usd", DueDate: tomorrow()},
	})
	require.NoError(t, err)

	var marked string
	f.gate.MarkPaidFunc = func(ctx context.Context, sample domain.SampleRequest) error {
		marked = *sample.PaymentIntentID
		return nil
	}

	result, err := f.machine.Transition(context.Background(), "s-1", domain.StatusSamplePaid, TransitionFields{})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", marked)
	assert.Equal(t, domain.StatusSamplePaid, f.store.sample("s-1").Status)
	assert.Len(t, f.history(t), 2)
	require.NotNil(t, result.Entry.PaymentIntentID)
	assert.Equal(t, "pi_123", *result.Entry.PaymentIntentID)
}

func TestTransition_ConcurrentSameSampleIsSerialized(t *testing.T) {
	f := newLifecycleFixture(domain.StatusRequested)
	rank := map[domain.Status]int{
		domain.StatusInProduction: 1,
		domain.StatusShipped:      2,
		domain.StatusDelivered:    3,
	}
	targets := []domain.Status{domain.StatusInProduction, domain.StatusShipped, domain.StatusDelivered}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(target domain.Status) {
			defer wg.Done()
			_, _ = f.machine.Transition(context.Background(), "s-1", target, TransitionFields{})
		}(targets[i%len(targets)])
	}
	wg.Wait()

	entries := f.history(t)
	require.NotEmpty(t, entries)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Seq, "sequence positions must be contiguous")
		if i > 0 {
			assert.Greater(t, rank[e.Status], rank[entries[i-1].Status], "entries must follow acceptance order")
		}
	}
	assert.Equal(t, entries[len(entries)-1].Status, f.store.sample("s-1").Status)
	assert.Equal(t, len(entries), f.notifier.count())
}
