package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

type SampleReader interface {
	FindByID(ctx context.Context, id string) (*domain.SampleRequest, error)
}

type OrderRepository interface {
	ExistsForSample(ctx context.Context, sampleID string) (bool, error)
	Insert(ctx context.Context, o domain.Order) error
}

type PromoteUseCase struct {
	samples SampleReader
	orders  OrderRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewPromoteUseCase(samples SampleReader, orders OrderRepository, logger *zap.Logger) *PromoteUseCase {
	return &PromoteUseCase{
		samples: samples,
		orders:  orders,
		logger:  logger,
		now:     time.Now,
	}
}

// Promote creates the bulk order for an approved sample. The sample itself is
// left untouched. The pre-check gives a clean error in the common case; the
// unique key on orders.sample_request_id settles concurrent calls.
func (uc *PromoteUseCase) Promote(ctx context.Context, sampleID string, quantity *int) (*domain.Order, error) {
	logger := uc.logger.With(zap.String("sampleId", sampleID))

	sample, err := uc.samples.FindByID(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	if sample.Status != domain.StatusApproved {
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("sample request %s is %s, only approved samples can be promoted", sampleID, sample.Status),
		)
	}

	exists, err := uc.orders.ExistsForSample(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewAlreadyPromotedError(sampleID)
	}

	order := domain.NewDerivedOrder(uuid.NewString(), *sample, quantity, uc.now().UTC())
	if err := uc.orders.Insert(ctx, order); err != nil {
		logger.Warn("inserting derived order failed", zap.String("kind", apperrors.Kind(err)), zap.Error(err))
		return nil, err
	}

	logger.Info("sample promoted to order", zap.String("orderId", order.ID), zap.Int("quantity", order.Quantity))
	return &order, nil
}
