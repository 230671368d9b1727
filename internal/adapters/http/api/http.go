// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/packlist/internal/adapters/http/respond"
	"github.com/okian/packlist/internal/domain/model"
	"github.com/okian/packlist/pkg/logger"
)

// Default request limits, used when options are not given.
const (
	defaultMaxUploadBytes = 256 << 20
	defaultMaxFieldBytes  = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GenerateChecklist answers a parsed checklist form.
	GenerateChecklist(ctx context.Context, sub *model.Submission) (model.ChecklistResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	checklistHandler *ChecklistHandler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxUploadBytes int64
	maxFieldBytes  int64
	logger         logger.Logger
}

// WithMaxUploadBytes caps the multipart body of a checklist request.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithMaxFieldBytes caps one text field of a checklist request.
func WithMaxFieldBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxFieldBytes = n
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{
		maxUploadBytes: defaultMaxUploadBytes,
		maxFieldBytes:  defaultMaxFieldBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}

	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		checklistHandler: NewChecklistHandler(deps, o.maxUploadBytes, o.maxFieldBytes, o.logger),
	}
}

// Register attaches all HTTP routes to r, plus JSON handlers for unknown
// paths and wrong methods.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).
		Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).
		Methods(http.MethodGet)
	r.HandleFunc("/api/generate-checklist", MetricsMiddleware(s.checklistHandler.HandleGenerate, "generate_checklist")).
		Methods(http.MethodPost)

	r.NotFoundHandler = MetricsMiddleware(handleNotFound, "not_found")
	r.MethodNotAllowedHandler = MetricsMiddleware(handleMethodNotAllowed, "method_not_allowed")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, NewKind("api.route", ErrNotFound))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, NewKind("api.route", ErrMethodNotAllowed))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	respond.JSON(w, status, v)
}

// writeError derives status, code and message from err's kind. Field lists
// of domain validation errors are passed through.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	respond.Error(w, status, code, publicMessage(err, status), model.Fields(err)...)
}
