package notification

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"samplehub/internal/config"
	"samplehub/internal/domain"
	directoryrepo "samplehub/internal/directory/repository"
	"samplehub/internal/infrastructure/email"
	"samplehub/internal/infrastructure/push"
	"samplehub/internal/notification/controller"
	notificationrepo "samplehub/internal/notification/repository"
	"samplehub/internal/notification/service"
	"samplehub/internal/notification/usecase"
	samplerepo "samplehub/internal/sample/repository"
)

const (
	directoryCacheSize = 1024
	directoryCacheTTL  = 5 * time.Minute
)

type Module struct {
	Controller *controller.NotificationController
	Notifier   *service.AsyncNotifier
}

func NewModule(db *sql.DB, cfg *config.Config, live service.LivePublisher, logger *zap.Logger) *Module {
	sampleRepo := samplerepo.NewMySQLSampleRepository(db)
	brandRepo := directoryrepo.NewCachedBrands(directoryrepo.NewMySQLBrandRepository(db), directoryCacheSize, directoryCacheTTL)
	repRepo := directoryrepo.NewCachedReps(directoryrepo.NewMySQLRepRepository(db), directoryCacheSize, directoryCacheTTL)
	notificationRepo := notificationrepo.NewMySQLNotificationRepository(db)
	tokenRepo := notificationrepo.NewMySQLPushTokenRepository(db)

	dispatcher := service.NewDispatcher(
		sampleRepo,
		brandRepo,
		repRepo,
		notificationRepo,
		tokenRepo,
		push.NewClient(cfg.Push.Endpoint, cfg.Push.AccessToken, logger),
		email.NewClient(cfg.Email.Endpoint, cfg.Email.APIKey, cfg.Email.From),
		live,
		service.DispatcherConfig{
			DispatchTimeout: cfg.Notification.DispatchTimeout,
			ChannelTimeout:  cfg.Notification.ChannelTimeout,
			BrandStatuses:   brandStatuses(cfg.Notification.BrandStatuses, logger),
		},
		logger,
	)

	triggerUC := usecase.NewTriggerUseCase(sampleRepo, dispatcher, logger)
	deviceUC := usecase.NewDeviceUseCase(tokenRepo, notificationRepo, logger)

	return &Module{
		Controller: controller.NewNotificationController(triggerUC, deviceUC, logger),
		Notifier:   service.NewAsyncNotifier(dispatcher, logger),
	}
}

func brandStatuses(names []string, logger *zap.Logger) map[domain.Status]bool {
	out := make(map[domain.Status]bool, len(names))
	for _, name := range names {
		st, ok := domain.ParseStatus(name)
		if !ok {
			logger.Warn("ignoring unknown brand notification status", zap.String("status", name))
			continue
		}
		out[st] = true
	}
	return out
}
