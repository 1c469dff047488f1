package router

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/cors"

	"github.com/dtroode/contacts-server/internal/api/http/handler"
	"github.com/dtroode/contacts-server/internal/api/http/middleware"
	"github.com/dtroode/contacts-server/internal/logger"
)

const readinessTimeout = 2 * time.Second

// ContactService is the contact service as seen by the router.
type ContactService interface {
	handler.ContactService
	Ping(ctx context.Context) error
}

// Options describe the build and the browser origins allowed to call the API.
type Options struct {
	Title          string
	Version        string
	AllowedOrigins []string
}

// Router assembles the HTTP handler of the contacts server.
type Router struct {
	contactService ContactService
	logger         *logger.Logger
	metrics        *metrics.Set
	options        Options
}

// New creates new Router instance.
func New(contactService ContactService, logger *logger.Logger, options Options) *Router {
	return &Router{
		contactService: contactService,
		logger:         logger,
		metrics:        metrics.NewSet(),
		options:        options,
	}
}

// Register mounts operational endpoints at the root and the contact API
// under /api, and wraps everything in CORS handling.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /readiness", r.readiness)
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) { r.writeMetrics(w) })

	config := huma.DefaultConfig(r.options.Title, r.options.Version)
	// Responses carry exactly the documented fields, no $schema links.
	config.CreateHooks = nil
	root := humago.New(mux, config)

	api := huma.NewGroup(root, "/api")
	api.UseMiddleware(
		middleware.NewLogging(r.logger).Handle,
		middleware.NewMetrics(r.metrics).Handle,
		middleware.NewRecover(root, r.logger).Handle,
	)
	handler.NewContact(r.contactService, r.logger).Register(api)

	return cors.New(cors.Options{
		AllowedOrigins:   r.options.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}).Handler(mux)
}

func (r *Router) readiness(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	if err := r.contactService.Ping(ctx); err != nil {
		r.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (r *Router) writeMetrics(w io.Writer) {
	fmt.Fprintf(w, "build_info{goversion=%q,title=%q,version=%q} 1\n", runtime.Version(), r.options.Title, r.options.Version)
	r.metrics.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}
