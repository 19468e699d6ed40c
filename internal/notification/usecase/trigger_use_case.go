package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/notification/service"
)

type SampleReader interface {
	FindByID(ctx context.Context, id string) (*domain.SampleRequest, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) *service.Report
}

// TriggerUseCase re-sends the current status of a sample request on demand and
// waits for the channel report.
type TriggerUseCase struct {
	samples    SampleReader
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewTriggerUseCase(samples SampleReader, dispatcher Dispatcher, logger *zap.Logger) *TriggerUseCase {
	return &TriggerUseCase{samples: samples, dispatcher: dispatcher, logger: logger}
}

func (uc *TriggerUseCase) Trigger(ctx context.Context, sampleID string) (*service.Report, error) {
	sampleID = strings.TrimSpace(sampleID)
	if sampleID == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "sampleId",
			Message: "required field",
		})
	}

	sample, err := uc.samples.FindByID(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	event := domain.NotificationEvent{
		ID:         uuid.NewString(),
		Kind:       domain.EventResend,
		SampleID:   sample.ID,
		Status:     sample.Status,
		OccurredAt: time.Now().UTC(),
	}

	report := uc.dispatcher.Dispatch(ctx, event)

	uc.logger.Info("notification triggered",
		zap.String("sampleId", sample.ID),
		zap.String("status", string(sample.Status)),
		zap.Bool("complete", report.Complete),
	)

	return report, nil
}
