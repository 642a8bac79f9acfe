package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/taskstore/internal/api/middleware"
	"github.com/phrazzld/taskstore/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestTimeout bounds the time a handler may spend on one request.
const requestTimeout = 30 * time.Second

// NewRouter creates the HTTP handler serving the task API, the health check
// and the Prometheus metrics endpoint. Metrics are registered with registry,
// which is also what /metrics exposes.
func NewRouter(taskService service.TaskService, logger *slog.Logger, registry *prometheus.Registry) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := apiMiddleware.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))
	// metrics wraps Recoverer so recovered panics are counted as 500s
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)

	taskHandler := NewTaskHandler(taskService)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r, nil
}
