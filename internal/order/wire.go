package order

import (
	"database/sql"

	"go.uber.org/zap"

	"samplehub/internal/order/controller"
	orderrepo "samplehub/internal/order/repository"
	"samplehub/internal/order/usecase"
	samplerepo "samplehub/internal/sample/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	sampleRepo := samplerepo.NewMySQLSampleRepository(db)

	promoteUC := usecase.NewPromoteUseCase(sampleRepo, orderRepo, logger)
	return controller.NewOrderController(promoteUC, logger)
}
