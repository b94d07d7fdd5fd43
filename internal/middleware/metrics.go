package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campfire_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AuthRejections counts requests rejected by the authentication gate, by reason.
	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campfire_auth_rejections_total",
		Help: "Total number of requests rejected by the authentication gate",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus HTTP metrics collector for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber middleware recording HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
