package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/infrastructure/metrics"
)

type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type SampleRepository interface {
	FindByIDForUpdate(ctx context.Context, id string) (*domain.SampleRequest, error)
	UpdateLifecycle(ctx context.Context, s domain.SampleRequest) error
}

type StatusLedger interface {
	Append(ctx context.Context, sampleID string, in EntryInput) (*domain.StatusEntry, error)
}

type PaymentGate interface {
	RequestInvoice(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error)
	MarkPaid(ctx context.Context, sample domain.SampleRequest) error
	CancelIntent(ctx context.Context, intentID string)
}

type Notifier interface {
	Enqueue(event domain.NotificationEvent)
}

type TransitionFields struct {
	Note           *string
	ETA            string
	TrackingNumber *string
	// PaymentIntentID is an externally obtained intent. When empty on an
	// invoice_sent transition the Payment Gate is asked for one using Invoice.
	PaymentIntentID *string
	Invoice         *domain.InvoiceRequest
}

type TransitionResult struct {
	Entry  domain.StatusEntry
	Sample domain.SampleRequest
	// Intent is set when this transition created a payment intent.
	Intent *domain.PaymentIntent
}

// Lifecycle validates and applies status transitions. Transitions for one
// sample are serialized; different samples proceed in parallel.
type Lifecycle struct {
	tx       TxManager
	samples  SampleRepository
	ledger   StatusLedger
	gate     PaymentGate
	notifier Notifier
	locks    *commons.KeyedMutex
	logger   *zap.Logger
	now      func() time.Time
}

func NewLifecycle(
	tx TxManager,
	samples SampleRepository,
	ledger StatusLedger,
	gate PaymentGate,
	notifier Notifier,
	logger *zap.Logger,
) *Lifecycle {
	return &Lifecycle{
		tx:       tx,
		samples:  samples,
		ledger:   ledger,
		gate:     gate,
		notifier: notifier,
		locks:    commons.NewKeyedMutex(),
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Lifecycle) Transition(
	ctx context.Context,
	sampleID string,
	target domain.Status,
	fields TransitionFields,
) (*TransitionResult, error) {
	logger := m.logger.With(zap.String("sampleId", sampleID), zap.String("target", string(target)))

	if !target.Valid() {
		return nil, apperrors.NewInvalidTransitionError("", string(target))
	}

	unlock := m.locks.Lock(sampleID)
	defer unlock()

	var (
		result  *TransitionResult
		created *domain.PaymentIntent
	)

	err := m.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sample, err := m.samples.FindByIDForUpdate(txCtx, sampleID)
		if err != nil {
			return err
		}

		if !sample.Status.CanTransition(target) {
			return apperrors.NewInvalidTransitionError(string(sample.Status), string(target))
		}

		// Fail a malformed ETA before any external side effect.
		if _, err := domain.ParseETA(fields.ETA); err != nil {
			return err
		}

		now := m.now().UTC()

		switch target {
		case domain.StatusInvoiceSent:
			intent, err := m.prepareInvoice(txCtx, sample, fields, now)
			if err != nil {
				return err
			}
			created = intent
		case domain.StatusSamplePaid:
			if sample.PaymentIntentID == nil || *sample.PaymentIntentID == "" {
				return apperrors.NewMissingRequiredFieldError("paymentIntentId", "sample has no payment intent to confirm")
			}
			if err := m.gate.MarkPaid(txCtx, *sample); err != nil {
				return err
			}
		}

		in := EntryInput{
			Status:         target,
			Note:           fields.Note,
			ETA:            fields.ETA,
			TrackingNumber: fields.TrackingNumber,
		}
		if target == domain.StatusInvoiceSent || target == domain.StatusSamplePaid {
			in.PaymentIntentID = sample.PaymentIntentID
		}

		entry, err := m.ledger.Append(txCtx, sampleID, in)
		if err != nil {
			return err
		}

		sample.Status = target
		sample.UpdatedAt = now
		if err := m.samples.UpdateLifecycle(txCtx, *sample); err != nil {
			return err
		}

		result = &TransitionResult{Entry: *entry, Sample: *sample, Intent: created}
		return nil
	})

	if err != nil {
		if created != nil {
			// The intent exists at the processor but nothing local refers to it.
			m.gate.CancelIntent(context.WithoutCancel(ctx), created.ID)
		}
		metrics.Transitions.WithLabelValues(string(target), apperrors.Kind(err)).Inc()
		logger.Warn("transition rejected", zap.String("kind", apperrors.Kind(err)), zap.Error(err))
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(target), "accepted").Inc()
	logger.Info("transition accepted", zap.Int("seq", result.Entry.Seq), zap.String("entryId", result.Entry.ID))

	m.notifier.Enqueue(domain.NotificationEvent{
		ID:         uuid.NewString(),
		Kind:       domain.EventStatusChanged,
		SampleID:   sampleID,
		Status:     target,
		Note:       result.Entry.Note,
		OccurredAt: result.Entry.CreatedAt,
	})

	return result, nil
}

func (m *Lifecycle) prepareInvoice(
	ctx context.Context,
	sample *domain.SampleRequest,
	fields TransitionFields,
	now time.Time,
) (*domain.PaymentIntent, error) {
	if fields.Invoice != nil {
		if err := fields.Invoice.Validate(now); err != nil {
			return nil, err
		}
		sample.Invoice = &domain.InvoiceDetails{
			Amount:   fields.Invoice.Amount,
			Currency: fields.Invoice.Currency,
			DueDate:  domain.TruncateToDate(fields.Invoice.DueDate),
		}
	}

	if fields.PaymentIntentID != nil && *fields.PaymentIntentID != "" {
		sample.PaymentIntentID = fields.PaymentIntentID
		return nil, nil
	}

	if fields.Invoice == nil {
		return nil, apperrors.NewMissingRequiredFieldError("paymentIntentId", "invoice requires a payment intent or invoice details")
	}

	intent, err := m.gate.RequestInvoice(ctx, *sample, *fields.Invoice)
	if err != nil {
		return nil, err
	}

	sample.PaymentIntentID = &intent.ID
	return intent, nil
}
