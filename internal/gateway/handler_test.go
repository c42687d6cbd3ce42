package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cbr-rate-service/internal/cbr"
	"cbr-rate-service/internal/metrics"
	"cbr-rate-service/internal/rates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The prometheus collectors register against the default registry, so the
// test binary builds them once.
var testMetrics = metrics.NewMetrics()

type stubService struct {
	current func(ctx context.Context) ([]cbr.Quote, error)
	history func(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error)
}

func (s *stubService) GetCurrentRates(ctx context.Context) ([]cbr.Quote, error) {
	return s.current(ctx)
}

func (s *stubService) GetHistoricalRates(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error) {
	return s.history(ctx, charCode, daysBack)
}

func newTestRoutes(service RateService) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(service, log, testMetrics)

	return NewRouter(handler, log, testMetrics).SetupRoutes()
}

func doRequest(t *testing.T, routes http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	return rr
}

func TestRatesHandler(t *testing.T) {
	t.Parallel()

	quotes := []cbr.Quote{
		{ID: "R01235", NumCode: "840", CharCode: "USD", Nominal: 1, Name: "Доллар США", Value: 92.5, Rate: 92.5},
		{ID: "R01820", NumCode: "392", CharCode: "JPY", Nominal: 100, Name: "Японских иен", Value: 66.4782, Rate: 0.664782},
	}

	routes := newTestRoutes(&stubService{
		current: func(ctx context.Context) ([]cbr.Quote, error) {
			return quotes, nil
		},
	})

	rr := doRequest(t, routes, "/rates")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got []cbr.Quote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, quotes, got)
}

func TestRatesHandlerHidesUpstreamError(t *testing.T) {
	t.Parallel()

	routes := newTestRoutes(&stubService{
		current: func(ctx context.Context) ([]cbr.Quote, error) {
			return nil, errors.New("upstream said: secret internal detail")
		},
	})

	rr := doRequest(t, routes, "/rates")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"failed to load rates"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "secret internal detail")
}

func TestHistoryHandler(t *testing.T) {
	t.Parallel()

	points := []rates.HistoricalPoint{
		{Date: "2021-09-14", Rate: 92.5},
		{Date: "2021-09-15", Rate: 92.6},
	}

	var gotCode string
	var gotDays int

	routes := newTestRoutes(&stubService{
		history: func(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error) {
			gotCode = charCode
			gotDays = daysBack

			return points, nil
		},
	})

	rr := doRequest(t, routes, "/rates/history/USD/2")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "USD", gotCode)
	assert.Equal(t, 2, gotDays)

	var got []rates.HistoricalPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, points, got)
}

func TestHistoryHandlerClampsDays(t *testing.T) {
	t.Parallel()

	var gotDays int

	routes := newTestRoutes(&stubService{
		history: func(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error) {
			gotDays = daysBack

			return []rates.HistoricalPoint{}, nil
		},
	})

	rr := doRequest(t, routes, "/rates/history/USD/400")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MaxHistoryDays, gotDays)
}

func TestHistoryHandlerUnparsableDays(t *testing.T) {
	t.Parallel()

	var gotDays int

	routes := newTestRoutes(&stubService{
		history: func(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error) {
			gotDays = daysBack

			return []rates.HistoricalPoint{}, nil
		},
	})

	rr := doRequest(t, routes, "/rates/history/USD/abc")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, gotDays)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestHistoryHandlerError(t *testing.T) {
	t.Parallel()

	routes := newTestRoutes(&stubService{
		history: func(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error) {
			return nil, errors.New("boom")
		},
	})

	rr := doRequest(t, routes, "/rates/history/USD/5")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"failed to load rate history"}`, rr.Body.String())
}

func TestTestHandler(t *testing.T) {
	t.Parallel()

	routes := newTestRoutes(&stubService{})

	rr := doRequest(t, routes, "/test")

	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got["message"])
}
