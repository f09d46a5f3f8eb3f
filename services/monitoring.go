package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/stillframe-app/stillframe_api/shared"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Gameplay metrics
var (
	guessesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_guesses_total",
			Help: "Guess submissions by outcome",
		},
		[]string{"outcome"},
	)

	revealsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_reveals_total",
			Help: "Image reveals",
		},
	)

	completionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_sessions_completed_total",
			Help: "Sessions finalized",
		},
	)
)

func recordGuess(outcome string) {
	guessesTotal.WithLabelValues(outcome).Inc()
}

func recordReveal() {
	revealsTotal.Inc()
}

func recordCompletion() {
	completionsTotal.Inc()
}

type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry

	server *fiber.App
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Start() error {
	portStr := os.Getenv("PROMETHEUS_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc.port = port

	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		guessesTotal,
		revealsTotal,
		completionsTotal,
	)

	svc.register = reg

	svc.server = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})))
	svc.server.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// HTTPMetrics is the request instrumentation middleware for the API listener.
func (svc *MonitoringService) HTTPMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The app error handler renders after this middleware returns, so on
		// failure the status must come from the error, not the response.
		status := c.Response().StatusCode()
		if err != nil {
			if appErr, ok := shared.GetAppError(err); ok {
				status = appErr.StatusCode
			} else if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		endpoint := c.Route().Path
		method := c.Method()

		httpRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
		httpRequestDurationSeconds.WithLabelValues(endpoint, method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())

		return err
	}
}
