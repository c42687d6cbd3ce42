package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"cbr-rate-service/internal/cbr"
	"cbr-rate-service/internal/metrics"
	"cbr-rate-service/internal/rates"

	"github.com/gorilla/mux"
)

// MaxHistoryDays caps the day count of a history request before the
// service starts its backward walk.
const MaxHistoryDays = 365

// RateService is the part of the rates service the gateway consumes.
type RateService interface {
	GetCurrentRates(ctx context.Context) ([]cbr.Quote, error)
	GetHistoricalRates(ctx context.Context, charCode string, daysBack int) ([]rates.HistoricalPoint, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	service RateService
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service RateService, log *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		log:     log,
		metrics: metrics,
	}
}

func (h *Handler) RatesHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.RateRequestsTotal.Inc()

	quotes, err := h.service.GetCurrentRates(r.Context())
	if err != nil {
		// Detail stays in the log; the client gets a generic message.
		h.log.Error("load current rates", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load rates"})
		return
	}

	h.writeJSON(w, http.StatusOK, quotes)
}

func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.HistoryRequestsTotal.Inc()

	vars := mux.Vars(r)
	code := vars["code"]

	// An unparsable day count behaves like zero: the walk yields an empty
	// series rather than an error.
	days, _ := strconv.Atoi(vars["days"])
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	points, err := h.service.GetHistoricalRates(r.Context(), code, days)
	if err != nil {
		h.log.Error("load rate history", "code", code, "days", days, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load rate history"})
		return
	}

	h.writeJSON(w, http.StatusOK, points)
}

func (h *Handler) TestHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "backend is up, source: cbr.ru daily XML feed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("encode response", "error", err)
	}
}
