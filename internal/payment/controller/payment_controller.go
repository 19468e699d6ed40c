package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/domain"
	"samplehub/internal/dto"
	apperrors "samplehub/internal/errors"
	"samplehub/internal/sample/service"
)

type InvoiceUseCase interface {
	RequestInvoice(ctx context.Context, sampleID string, req domain.InvoiceRequest, note *string) (*service.TransitionResult, error)
	ConfirmPayment(ctx context.Context, sampleID string) (*service.TransitionResult, error)
}

type PaymentController struct {
	useCase InvoiceUseCase
	logger  *zap.Logger
}

func NewPaymentController(useCase InvoiceUseCase, logger *zap.Logger) *PaymentController {
	return &PaymentController{useCase: useCase, logger: logger}
}

func (c *PaymentController) RequestInvoice(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	sampleID := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("sampleId", sampleID))

	var req dto.InvoiceRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	invoice, err := parseInvoice(req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	result, err := c.useCase.RequestInvoice(r.Context(), sampleID, invoice, req.Note)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := dto.InvoiceResponse{
		TraceID: traceID,
		Sample:  dto.NewSampleResponse(result.Sample),
		Entry:   dto.NewStatusEntryResponse(result.Entry),
	}
	if result.Sample.PaymentIntentID != nil {
		resp.PaymentIntentID = *result.Sample.PaymentIntentID
	}
	if result.Intent != nil {
		resp.ClientSecret = result.Intent.ClientSecret
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	sampleID := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("sampleId", sampleID))

	result, err := c.useCase.ConfirmPayment(r.Context(), sampleID)
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

func parseInvoice(req dto.InvoiceRequest) (domain.InvoiceRequest, error) {
	if strings.TrimSpace(req.Amount) == "" {
		return domain.InvoiceRequest{}, apperrors.NewMissingRequiredFieldError("amount", "amount is required")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return domain.InvoiceRequest{}, apperrors.NewInvalidFormatError("amount", req.Amount)
	}

	if strings.TrimSpace(req.DueDate) == "" {
		return domain.InvoiceRequest{}, apperrors.NewMissingRequiredFieldError("dueDate", "dueDate is required")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return domain.InvoiceRequest{}, apperrors.NewInvalidFormatError("dueDate", req.DueDate)
	}

	return domain.InvoiceRequest{Amount: amount, Currency: req.Currency, DueDate: dueDate}, nil
}

func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if d, err := time.Parse(domain.DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return domain.TruncateToDate(ts), nil
}
