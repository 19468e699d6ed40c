package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/domain"
	"samplehub/internal/dto"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/sample/service"
	"samplehub/internal/sample/usecase"
)

type CreateUseCase interface {
	Create(ctx context.Context, in usecase.CreateSampleInput) (*domain.SampleRequest, error)
}

type QueryUseCase interface {
	Get(ctx context.Context, id string) (*domain.SampleRequest, error)
	History(ctx context.Context, id string) ([]domain.StatusEntry, error)
}

type StateMachine interface {
	Transition(ctx context.Context, sampleID string, target domain.Status, fields service.TransitionFields) (*service.TransitionResult, error)
}

type SampleController struct {
	create  CreateUseCase
	query   QueryUseCase
	machine StateMachine
	logger  *zap.Logger
}

func NewSampleController(create CreateUseCase, query QueryUseCase, machine StateMachine, logger *zap.Logger) *SampleController {
	return &SampleController{
		create:  create,
		query:   query,
		machine: machine,
		logger:  logger,
	}
}

func (c *SampleController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateSampleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	sample, err := c.create.Create(r.Context(), usecase.CreateSampleInput{
		BrandID:            req.BrandID,
		FactoryID:          req.FactoryID,
		ProductDescription: req.ProductDescription,
		Quantity:           req.Quantity,
		PreferredMOQ:       req.PreferredMOQ,
		DeliveryAddress:    req.DeliveryAddress,
		FileURLs:           req.FileURLs,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewSampleResponse(*sample), logger)
}

func (c *SampleController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	id := chi.URLParam(r, "id")

	sample, err := c.query.Get(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewSampleResponse(*sample), logger)
}

func (c *SampleController) History(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	id := chi.URLParam(r, "id")

	entries, err := c.query.History(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewHistoryResponse(id, entries), logger)
}

func (c *SampleController) Transition(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	id := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("sampleId", id))

	var req dto.TransitionRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Status == "" {
		commons.WriteValidationError(w, traceID, "status is required", logger, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	result, err := c.machine.Transition(r.Context(), id, domain.Status(req.Status), service.TransitionFields{
		Note:            req.Note,
		ETA:             req.ETA,
		TrackingNumber:  req.TrackingNumber,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.TransitionResponse{
		TraceID: traceID,
		Sample:  dto.NewSampleResponse(result.Sample),
		Entry:   dto.NewStatusEntryResponse(result.Entry),
	}, logger)
}
