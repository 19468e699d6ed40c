package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "samplehub"

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Lifecycle transitions by target status and outcome.",
	}, []string{"status", "outcome"})

	NotificationChannel = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_channel_total",
		Help:      "Notification channel attempts by channel and outcome.",
	}, []string{"channel", "outcome"})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_dispatch_seconds",
		Help:      "Time until every channel of a dispatch finished.",
		Buckets:   prometheus.DefBuckets,
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
