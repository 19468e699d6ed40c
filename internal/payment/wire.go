package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"samplehub/internal/config"
	directoryrepo "samplehub/internal/directory/repository"
	"samplehub/internal/payment/controller"
	paymentrepo "samplehub/internal/payment/repository"
	"samplehub/internal/payment/service"
	"samplehub/internal/payment/usecase"
)

// NewGate builds the payment gate the lifecycle calls inside its transition
// transaction.
func NewGate(db *sql.DB, processor service.Processor, logger *zap.Logger) *service.Gate {
	return service.NewGate(
		directoryrepo.NewMySQLBrandRepository(db),
		paymentrepo.NewMySQLCustomerRepository(db),
		paymentrepo.NewMySQLPaymentRecordRepository(db),
		processor,
		logger,
	)
}

func NewModule(machine usecase.StateMachine, cfg *config.Config, logger *zap.Logger) *controller.PaymentController {
	invoiceUC := usecase.NewInvoiceUseCase(machine, cfg.Payment.DefaultCurrency, logger)
	return controller.NewPaymentController(invoiceUC, logger)
}
