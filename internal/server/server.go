package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KonishchevDmitry/whales/internal/logging"
)

// HealthCheck reports whether the engine is usable.
type HealthCheck func(ctx context.Context) error

func NewRouter(ctx context.Context, gatherer prometheus.Gatherer, healthCheck HealthCheck) http.Handler {
	logger := logging.L(ctx)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:            prometheusLogger{logger: logger},
		DisableCompression:  true,
		MaxRequestsInFlight: 2,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := healthCheck(logging.WithLogger(r.Context(), logger)); err != nil {
			logger.Warnf("Health check failed: %s.", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprintln(w, "OK")
	})

	return router
}

func New(ctx context.Context, listen string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         listen,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     log.New(httpLogger{logger: logging.L(ctx)}, "", 0),
	}
}

type httpLogger struct {
	logger *zap.SugaredLogger
}

func (l httpLogger) Write(data []byte) (n int, err error) {
	size := len(data)
	if size != 0 && data[size-1] == '\n' {
		data = data[:size-1]
	}

	l.logger.Errorf("HTTP server: %s", data)
	return size, nil
}

type prometheusLogger struct {
	logger *zap.SugaredLogger
}

func (l prometheusLogger) Println(v ...interface{}) {
	l.logger.Errorf("Prometheus: %s.", fmt.Sprint(v...))
}
