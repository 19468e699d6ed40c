package usecase

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

// Backoff before attempt 2, 3, ... of a deadlocked creation.
var retryBackoffs = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type BrandRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Brand, error)
}

type FactoryRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Factory, error)
}

type RepRepository interface {
	ListActive(ctx context.Context) ([]domain.Rep, error)
	TouchAssigned(ctx context.Context, id string, at time.Time) error
}

type SampleWriter interface {
	Insert(ctx context.Context, s domain.SampleRequest) error
}

type Notifier interface {
	Enqueue(event domain.NotificationEvent)
}

type CreateSampleInput struct {
	BrandID            string
	FactoryID          string
	ProductDescription string
	Quantity           int
	PreferredMOQ       *int
	DeliveryAddress    string
	FileURLs           []string
}

func (in CreateSampleInput) validate() error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(in.BrandID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "brandId", Message: "brandId is required"})
	}
	if strings.TrimSpace(in.FactoryID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "factoryId", Message: "factoryId is required"})
	}
	if strings.TrimSpace(in.ProductDescription) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "productDescription", Message: "productDescription is required"})
	}
	if in.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be a positive integer"})
	}
	if in.PreferredMOQ != nil && *in.PreferredMOQ <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "preferredMoq", Message: "preferredMoq must be a positive integer"})
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "deliveryAddress", Message: "deliveryAddress is required"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

type CreateSampleUseCase struct {
	tx        TxManager
	brands    BrandRepository
	factories FactoryRepository
	reps      RepRepository
	samples   SampleWriter
	notifier  Notifier
	attempts  int
	logger    *zap.Logger
	now       func() time.Time
}

func NewCreateSampleUseCase(
	tx TxManager,
	brands BrandRepository,
	factories FactoryRepository,
	reps RepRepository,
	samples SampleWriter,
	notifier Notifier,
	maxAttempts int,
	logger *zap.Logger,
) *CreateSampleUseCase {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &CreateSampleUseCase{
		tx:        tx,
		brands:    brands,
		factories: factories,
		reps:      reps,
		samples:   samples,
		notifier:  notifier,
		attempts:  maxAttempts,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new sample request in the requested status with a rep
// assigned. No ledger row is written; the initial entry is derived on read.
func (uc *CreateSampleUseCase) Create(ctx context.Context, in CreateSampleInput) (*domain.SampleRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := uc.brands.FindByID(ctx, in.BrandID); err != nil {
		return nil, err
	}

	factory, err := uc.factories.FindByID(ctx, in.FactoryID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	sample := domain.SampleRequest{
		ID:                 uuid.NewString(),
		BrandID:            in.BrandID,
		FactoryID:          in.FactoryID,
		Status:             domain.StatusRequested,
		ProductDescription: strings.TrimSpace(in.ProductDescription),
		Quantity:           in.Quantity,
		PreferredMOQ:       in.PreferredMOQ,
		DeliveryAddress:    strings.TrimSpace(in.DeliveryAddress),
		FileURLs:           in.FileURLs,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if sample.FileURLs == nil {
		sample.FileURLs = []string{}
	}

	err = uc.insertWithRetry(ctx, *factory, &sample, now)
	if err != nil {
		uc.logger.Warn("sample request creation failed",
			zap.String("brandId", in.BrandID),
			zap.String("factoryId", in.FactoryID),
			zap.String("kind", apperrors.Kind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("sample request created",
		zap.String("sampleId", sample.ID),
		zap.String("repId", sample.RepID),
	)

	uc.notifier.Enqueue(domain.NotificationEvent{
		ID:         uuid.NewString(),
		Kind:       domain.EventCreated,
		SampleID:   sample.ID,
		Status:     domain.StatusRequested,
		OccurredAt: now,
	})

	return &sample, nil
}

// insertWithRetry assigns the rep and inserts the sample in one transaction.
// Concurrent creations touching the same rep row may deadlock; those attempts
// are retried with jittered backoff.
func (uc *CreateSampleUseCase) insertWithRetry(ctx context.Context, factory domain.Factory, sample *domain.SampleRequest, now time.Time) error {
	var err error
	for attempt := 1; attempt <= uc.attempts; attempt++ {
		err = uc.tx.RunInTx(ctx, func(txCtx context.Context) error {
			active, err := uc.reps.ListActive(txCtx)
			if err != nil {
				return err
			}

			repID, err := domain.AssignRep(factory, active)
			if err != nil {
				return err
			}
			sample.RepID = repID

			if err := uc.reps.TouchAssigned(txCtx, repID, now); err != nil {
				return err
			}

			return uc.samples.Insert(txCtx, *sample)
		})
		if err == nil || !mysql.IsDeadlock(err) || attempt == uc.attempts {
			return err
		}

		backoff := retryBackoffs[min(attempt, len(retryBackoffs))-1]
		jitter := time.Duration(float64(backoff) * (rand.Float64()*0.4 - 0.2))
		uc.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.attempts),
			zap.String("sampleId", sample.ID),
		)

		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
