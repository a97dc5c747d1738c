package middleware

import (
	"strconv"
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitRejections counts requests rejected by RateLimit, by resource.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_rate_limit_rejections_total",
		Help: "Requests rejected by the Redis rate limiter",
	}, []string{"resource"})

	// HTTPErrors counts 4xx/5xx responses by route and status.
	HTTPErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_http_errors_total",
		Help: "HTTP responses with status >= 400, by route and status",
	}, []string{"route", "status"})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus collector for the service. The
// collector registers on the default registry, so it is built once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, serviceName, "http", "", nil)
	})
	return promInst
}

// MetricsMiddleware records request metrics and counts error responses per route.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	collect := prom.Middleware
	return func(c *fiber.Ctx) error {
		err := collect(c)
		if status := c.Response().StatusCode(); status >= fiber.StatusBadRequest {
			HTTPErrors.WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()
		}
		return err
	}
}
