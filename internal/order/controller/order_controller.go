package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/domain"
	"samplehub/internal/dto"
	apperrors "samplehub/internal/errors"
)

type PromoteUseCase interface {
	Promote(ctx context.Context, sampleID string, quantity *int) (*domain.Order, error)
}

type OrderController struct {
	useCase PromoteUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase PromoteUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{useCase: useCase, logger: logger}
}

func (c *OrderController) Promote(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	sampleID := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("sampleId", sampleID))

	// The body is optional.
	var req dto.PromoteRequest
	if err := commons.DecodeJSON(r, &req); err != nil && err != io.EOF {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Quantity != nil && *req.Quantity <= 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
		return
	}

	order, err := c.useCase.Promote(r.Context(), sampleID, req.Quantity)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(*order), logger)
}
