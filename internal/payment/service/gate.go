package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

// Processor is the external payment processor.
type Processor interface {
	// CreateCustomer must be idempotent per brand id.
	CreateCustomer(ctx context.Context, brand domain.Brand) (string, error)
	CreateIntent(ctx context.Context, customerID string, sampleID string, amountMinor int64, currency string) (*domain.PaymentIntent, error)
	CancelIntent(ctx context.Context, intentID string) error
}

type BrandRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Brand, error)
}

type CustomerRepository interface {
	FindByBrandID(ctx context.Context, brandID string) (*domain.PaymentCustomer, error)
	InsertOrGet(ctx context.Context, c domain.PaymentCustomer) (*domain.PaymentCustomer, error)
}

type PaymentRecordRepository interface {
	Insert(ctx context.Context, p domain.PaymentRecord) error
	FindByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error)
	MarkPaid(ctx context.Context, id string, at time.Time) error
}

// Gate opens payment intents for invoices and records their outcome. Payment
// records are written on the caller's context and join the surrounding
// transition transaction; the brand's customer mapping is committed on its own.
type Gate struct {
	brands    BrandRepository
	customers CustomerRepository
	records   PaymentRecordRepository
	processor Processor
	inflight  singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

func NewGate(
	brands BrandRepository,
	customers CustomerRepository,
	records PaymentRecordRepository,
	processor Processor,
	logger *zap.Logger,
) *Gate {
	return &Gate{
		brands:    brands,
		customers: customers,
		records:   records,
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

func (g *Gate) RequestInvoice(ctx context.Context, sample domain.SampleRequest, req domain.InvoiceRequest) (*domain.PaymentIntent, error) {
	logger := g.logger.With(zap.String("sampleId", sample.ID), zap.String("brandId", sample.BrandID))
	now := g.now().UTC()

	if err := req.Validate(now); err != nil {
		return nil, err
	}

	customer, err := g.ensureCustomer(ctx, sample.BrandID, now)
	if err != nil {
		return nil, err
	}

	intent, err := g.processor.CreateIntent(ctx, customer.ProviderCustomerID, sample.ID, domain.MinorUnits(req.Amount, req.Currency), req.Currency)
	if err != nil {
		logger.Error("creating payment intent failed", zap.Error(err))
		return nil, asGatewayError("creating payment intent", err)
	}

	record := domain.PaymentRecord{
		ID:              uuid.NewString(),
		SampleRequestID: sample.ID,
		BrandID:         sample.BrandID,
		CustomerID:      customer.ProviderCustomerID,
		PaymentIntentID: intent.ID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		DueDate:         domain.TruncateToDate(req.DueDate),
		Status:          domain.PaymentPending,
		CreatedAt:       now,
	}
	if err := g.records.Insert(ctx, record); err != nil {
		g.CancelIntent(context.WithoutCancel(ctx), intent.ID)
		return nil, err
	}

	logger.Info("payment intent created", zap.String("paymentIntentId", intent.ID))
	return intent, nil
}

// ensureCustomer returns the brand's processor customer, creating it on first
// use. Concurrent first requests converge on the stored row.
func (g *Gate) ensureCustomer(ctx context.Context, brandID string, now time.Time) (*domain.PaymentCustomer, error) {
	existing, err := g.customers.FindByBrandID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	brand, err := g.brands.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	// The processor customer exists once this returns, so its mapping must
	// outlive a rollback of the invoice transaction.
	v, err, _ := g.inflight.Do(brandID, func() (any, error) {
		return g.processor.CreateCustomer(context.WithoutCancel(ctx), *brand)
	})
	if err != nil {
		g.logger.Error("creating processor customer failed", zap.String("brandId", brandID), zap.Error(err))
		return nil, asGatewayError("creating processor customer", err)
	}

	return g.customers.InsertOrGet(mysql.WithoutTx(ctx), domain.PaymentCustomer{
		BrandID:            brandID,
		ProviderCustomerID: v.(string),
		CreatedAt:          now,
	})
}

// MarkPaid records the client-reported payment for the sample's intent.
// Intents supplied from outside have no local record and are accepted as is.
func (g *Gate) MarkPaid(ctx context.Context, sample domain.SampleRequest) error {
	if sample.PaymentIntentID == nil || *sample.PaymentIntentID == "" {
		return apperrors.NewMissingRequiredFieldError("paymentIntentId", "sample has no payment intent to confirm")
	}

	record, err := g.records.FindByIntentID(ctx, *sample.PaymentIntentID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			g.logger.Warn("no payment record for intent",
				zap.String("sampleId", sample.ID),
				zap.String("paymentIntentId", *sample.PaymentIntentID),
			)
			return nil
		}
		return err
	}

	if record.Status == domain.PaymentPaid {
		return nil
	}
	if record.Status == domain.PaymentCanceled {
		return apperrors.NewInvalidStateError("payment intent " + record.PaymentIntentID + " was canceled")
	}

	return g.records.MarkPaid(ctx, record.ID, g.now().UTC())
}

// CancelIntent is best effort; failures are logged only.
func (g *Gate) CancelIntent(ctx context.Context, intentID string) {
	if err := g.processor.CancelIntent(ctx, intentID); err != nil {
		g.logger.Error("canceling payment intent failed", zap.String("paymentIntentId", intentID), zap.Error(err))
		return
	}
	g.logger.Info("payment intent canceled", zap.String("paymentIntentId", intentID))
}

func asGatewayError(message string, err error) error {
	if _, ok := apperrors.IsPaymentGatewayError(err); ok {
		return err
	}
	return apperrors.NewPaymentGatewayError(message, err)
}
