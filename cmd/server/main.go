package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"samplehub/internal/commons"
	"samplehub/internal/config"
	"samplehub/internal/infrastructure/logger"
	"samplehub/internal/infrastructure/mysql"
	"samplehub/internal/infrastructure/stripe"
	"samplehub/internal/infrastructure/websocket"
	"samplehub/internal/notification"
	"samplehub/internal/order"
	"samplehub/internal/payment"
	"samplehub/internal/sample"
	"samplehub/internal/server"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Payment.StripeSecretKey == "" {
		zapLogger.Warn("stripe secret key not configured, invoice requests will fail")
	}
	if cfg.Auth.JWTSecret == "" {
		zapLogger.Warn("jwt secret not configured, websocket connections will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(zapLogger)
	go hub.Run(ctx)

	notificationModule := notification.NewModule(db, cfg, hub, zapLogger)
	gate := payment.NewGate(db, stripe.NewProcessor(cfg.Payment.StripeSecretKey, zapLogger), zapLogger)
	sampleModule := sample.NewModule(db, cfg, gate, notificationModule.Notifier, zapLogger)
	paymentCtrl := payment.NewModule(sampleModule.Lifecycle, cfg, zapLogger)
	orderCtrl := order.NewModule(db, zapLogger)

	router := server.NewRouter(server.Handlers{
		Samples:       sampleModule.Controller,
		Payments:      paymentCtrl,
		Orders:        orderCtrl,
		Notifications: notificationModule.Controller,
		Live:          hub.Handler([]byte(cfg.Auth.JWTSecret)),
	}, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	if err := notificationModule.Notifier.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("pending notifications abandoned", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig reads CONFIG_FILE when set, otherwise the environment.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
