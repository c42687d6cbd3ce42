package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cbr-rate-service/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	handler *Handler
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewRouter(handler *Handler, log *slog.Logger, metrics *metrics.Metrics) *Router {
	return &Router{
		handler: handler,
		log:     log,
		metrics: metrics,
	}
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		crw := &customResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(crw, req)

		duration := time.Since(start)

		if req.URL.Path != "/metrics" {
			r.metrics.HTTPRequestDuration.WithLabelValues(req.URL.Path, req.Method).Observe(duration.Seconds())
			r.metrics.HTTPRequestsTotal.WithLabelValues(req.URL.Path, req.Method, fmt.Sprintf("%dxx", crw.statusCode/100)).Inc()
		}

		r.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", crw.statusCode,
			"duration", duration,
			"remote_addr", req.RemoteAddr,
		)
	})
}

type customResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (crw *customResponseWriter) WriteHeader(code int) {
	crw.statusCode = code
	crw.ResponseWriter.WriteHeader(code)
}

func (r *Router) SetupRoutes() http.Handler {
	m := mux.NewRouter()

	m.HandleFunc("/rates", r.handler.RatesHandler).Methods(http.MethodGet)
	m.HandleFunc("/rates/history/{code}/{days}", r.handler.HistoryHandler).Methods(http.MethodGet)
	m.HandleFunc("/test", r.handler.TestHandler).Methods(http.MethodGet)
	m.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	m.Use(r.loggingMiddleware)

	return m
}
