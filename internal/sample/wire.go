package sample

import (
	"database/sql"

	"go.uber.org/zap"

	"samplehub/internal/config"
	directoryrepo "samplehub/internal/directory/repository"
	"samplehub/internal/infrastructure/mysql"
	"samplehub/internal/sample/controller"
	samplerepo "samplehub/internal/sample/repository"
	"samplehub/internal/sample/service"
	"samplehub/internal/sample/usecase"
)

type Module struct {
	Controller *controller.SampleController
	// Lifecycle is shared with the payment module for invoice and payment
	// transitions.
	Lifecycle *service.Lifecycle
}

func NewModule(db *sql.DB, cfg *config.Config, gate service.PaymentGate, notifier service.Notifier, logger *zap.Logger) *Module {
	txManager := mysql.NewTxManager(db)
	sampleRepo := samplerepo.NewMySQLSampleRepository(db)
	historyRepo := samplerepo.NewMySQLStatusHistoryRepository(db)

	ledger := service.NewLedger(historyRepo, sampleRepo)
	lifecycle := service.NewLifecycle(txManager, sampleRepo, ledger, gate, notifier, logger)

	createUC := usecase.NewCreateSampleUseCase(
		txManager,
		directoryrepo.NewMySQLBrandRepository(db),
		directoryrepo.NewMySQLFactoryRepository(db),
		directoryrepo.NewMySQLRepRepository(db),
		sampleRepo,
		notifier,
		cfg.Database.MaxRetryAttempts,
		logger,
	)
	queryUC := usecase.NewSampleQueryUseCase(sampleRepo, ledger)

	return &Module{
		Controller: controller.NewSampleController(createUC, queryUC, lifecycle, logger),
		Lifecycle:  lifecycle,
	}
}
