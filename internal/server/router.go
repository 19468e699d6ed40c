package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"samplehub/internal/infrastructure/metrics"
)

type SampleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	RequestInvoice(w http.ResponseWriter, r *http.Request)
	ConfirmPayment(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	Promote(w http.ResponseWriter, r *http.Request)
}

type NotificationHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
	RegisterToken(w http.ResponseWriter, r *http.Request)
	UnregisterToken(w http.ResponseWriter, r *http.Request)
	Feed(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	Samples       SampleHandler
	Payments      PaymentHandler
	Orders        OrderHandler
	Notifications NotificationHandler
	// Live upgrades GET /ws to a websocket.
	Live http.Handler
}

func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	// The socket outlives the request timeout.
	if h.Live != nil {
		r.Handle("/ws", h.Live)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/sample-requests", func(r chi.Router) {
			r.Post("/", h.Samples.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Samples.Get)
				r.Get("/history", h.Samples.History)
				r.Post("/transitions", h.Samples.Transition)
				r.Post("/invoice", h.Payments.RequestInvoice)
				r.Post("/payment/confirm", h.Payments.ConfirmPayment)
				r.Post("/promote", h.Orders.Promote)
			})
		})

		r.Post("/notifications/sample-request", h.Notifications.Trigger)
		r.Post("/push-tokens", h.Notifications.RegisterToken)
		r.Delete("/push-tokens/{token}", h.Notifications.UnregisterToken)
		r.Get("/users/{userId}/notifications", h.Notifications.Feed)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			)
		})
	}
}
