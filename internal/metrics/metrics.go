package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AlertsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "alerts_created_total",
		Help:      "Alerts accepted for delivery, by level.",
	}, []string{"level"})

	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "alerts_sent_total",
		Help:      "Alerts successfully delivered to Telegram.",
	})

	AlertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "alerts_failed_total",
		Help:      "Alerts that exhausted delivery retries.",
	})

	NotifyRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "notify_retries_total",
		Help:      "Retried Telegram send attempts.",
	})

	DetectionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "detections_recorded_total",
		Help:      "Detection events persisted, by class.",
	}, []string{"class"})

	FramesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_service",
		Name:      "frames_captured_total",
		Help:      "Camera frames pulled by the detection worker.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
