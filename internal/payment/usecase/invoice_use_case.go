package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"samplehub/internal/domain"
	"samplehub/internal/sample/service"
)

type StateMachine interface {
	Transition(ctx context.Context, sampleID string, target domain.Status, fields service.TransitionFields) (*service.TransitionResult, error)
}

type InvoiceUseCase struct {
	machine         StateMachine
	defaultCurrency string
	logger          *zap.Logger
}

func NewInvoiceUseCase(machine StateMachine, defaultCurrency string, logger *zap.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{
		machine:         machine,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// RequestInvoice moves the sample to invoice_sent, opening a payment intent
// at the processor.
func (uc *InvoiceUseCase) RequestInvoice(ctx context.Context, sampleID string, req domain.InvoiceRequest, note *string) (*service.TransitionResult, error) {
	if strings.TrimSpace(req.Currency) == "" {
		req.Currency = uc.defaultCurrency
	}
	req.Currency = strings.ToLower(req.Currency)

	uc.logger.Info("invoice requested",
		zap.String("sampleId", sampleID),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.Currency),
	)

	return uc.machine.Transition(ctx, sampleID, domain.StatusInvoiceSent, service.TransitionFields{
		Note:    note,
		Invoice: &req,
	})
}

// ConfirmPayment trusts the client's report that funds were collected and
// moves the sample to sample_paid.
func (uc *InvoiceUseCase) ConfirmPayment(ctx context.Context, sampleID string) (*service.TransitionResult, error) {
	uc.logger.Info("payment confirmation received", zap.String("sampleId", sampleID))
	return uc.machine.Transition(ctx, sampleID, domain.StatusSamplePaid, service.TransitionFields{})
}
