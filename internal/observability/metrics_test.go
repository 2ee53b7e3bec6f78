package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	RankingComputations().WithLabelValues(OutcomeSuccess).Inc()
	JudgeResultsProcessed().WithLabelValues("done").Inc()

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "ranking_computations_total")
	require.Contains(t, string(body), "judge_results_processed_total")
}
