package services

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/stillframe-app/stillframe_api/shared"
)

func TestHTTPMetricsUsesErrorStatusOnFailure(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return c.Status(appErr.StatusCode).JSON(appErr)
			}
			return c.Status(fiber.StatusInternalServerError).SendString("error")
		},
	})

	svc := &MonitoringService{}
	app.Use(svc.HTTPMetrics())
	app.Get("/limited", func(c *fiber.Ctx) error {
		return shared.NewRateLimitError("Too many requests")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/limited", "GET", "429"))

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// The counter must carry the rendered status, not the pre-handler 200.
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/limited", "GET", "429"))
	require.Equal(t, before+1, after)
	require.Zero(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/limited", "GET", "200")))
}

func TestHTTPMetricsRecordsSuccessStatus(t *testing.T) {
	app := fiber.New()

	svc := &MonitoringService{}
	app.Use(svc.HTTPMetrics())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/ping", "GET", "200"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/ping", "GET", "200"))
	require.Equal(t, before+1, after)
}
