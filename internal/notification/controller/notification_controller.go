package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/domain"
	"samplehub/internal/dto"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/notification/service"
	"samplehub/internal/notification/usecase"
)

type TriggerUseCase interface {
	Trigger(ctx context.Context, sampleID string) (*service.Report, error)
}

type DeviceUseCase interface {
	Register(ctx context.Context, in usecase.RegisterTokenInput) (*domain.PushToken, error)
	Unregister(ctx context.Context, token string) error
	Feed(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

type NotificationController struct {
	trigger TriggerUseCase
	devices DeviceUseCase
	logger  *zap.Logger
}

func NewNotificationController(trigger TriggerUseCase, devices DeviceUseCase, logger *zap.Logger) *NotificationController {
	return &NotificationController{trigger: trigger, devices: devices, logger: logger}
}

// Trigger answers 200 with the channel report, even when some channels failed
// or are still pending.
func (c *NotificationController) Trigger(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.TriggerRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	report, err := c.trigger.Trigger(r.Context(), req.SampleID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, report, logger)
}

func (c *NotificationController) RegisterToken(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RegisterTokenRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	token, err := c.devices.Register(r.Context(), usecase.RegisterTokenInput{
		UserID:   req.UserID,
		Token:    req.Token,
		Platform: req.Platform,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewPushTokenResponse(*token), logger)
}

func (c *NotificationController) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	if err := c.devices.Unregister(r.Context(), chi.URLParam(r, "token")); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *NotificationController) Feed(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	userID := chi.URLParam(r, "userId")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			commons.WriteError(w, traceID, apperrors.NewInvalidFormatError("limit", raw), logger)
			return
		}
		limit = n
	}

	items, err := c.devices.Feed(r.Context(), userID, limit)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewNotificationFeedResponse(userID, items), logger)
}
