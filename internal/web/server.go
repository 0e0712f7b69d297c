// Package web provides the HTTP front controller for the application.
//
// Requests are split into path segments and dispatched to registered
// actions. Every action answers through a Responder: a rendered page, a
// result envelope or a redirect.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skdb/formkit/internal/config"
	"github.com/skdb/formkit/internal/form"
	"github.com/skdb/formkit/internal/mutation"
	"github.com/skdb/formkit/internal/render"
	ownmw "github.com/skdb/formkit/internal/web/middleware"
)

// Auditor records web-layer events (rest errors). May be nil.
type Auditor interface {
	LogActionByCategory(ctx context.Context, category, message string, subject any) error
}

// UserFunc resolves the acting session user for a request. Session handling
// is consumed, not implemented here; a nil func means anonymous requests.
type UserFunc func(r *http.Request) *render.User

// Server is the HTTP front controller.
type Server struct {
	cfg      *config.Config
	renderer *render.Renderer
	executor *mutation.Executor
	audit    Auditor
	userFn   UserFunc

	router   *chi.Mux
	server   *http.Server
	dispatch *dispatcher
}

// NewServer wires the front controller. audit and userFn may be nil.
func NewServer(cfg *config.Config, renderer *render.Renderer, executor *mutation.Executor, audit Auditor, userFn UserFunc) *Server {
	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		executor: executor,
		audit:    audit,
		userFn:   userFn,
		router:   chi.NewRouter(),
		dispatch: newDispatcher(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// HandleAction registers an action under a slash-joined path. The empty
// path is the root action.
func (s *Server) HandleAction(path string, a Action) {
	s.dispatch.register(path, a)
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(ownmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes mounts the metrics endpoint and hands everything else to the
// action dispatcher.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.NotFound(s.serveAction)
}

// serveAction is the front-controller entry: one inbound request, one
// responder, handled start to finish with no internal parallelism.
func (s *Server) serveAction(w http.ResponseWriter, r *http.Request) {
	rsp := &Responder{w: w, r: r, srv: s}
	if s.userFn != nil {
		rsp.user = s.userFn(r)
	}
	path := strings.TrimPrefix(r.URL.Path, strings.TrimSuffix(s.cfg.App.RootPath, "/"))
	s.execute(rsp, splitPath(path))
}

// execute dispatches path segments to their action. Unroutable paths land
// on the error page; an unroutable error page is a plain 404.
func (s *Server) execute(rsp *Responder, segments []string) {
	rsp.depth++
	if rsp.depth > maxRerouteDepth {
		http.Error(rsp.w, "reroute loop", http.StatusInternalServerError)
		return
	}
	rsp.parts = segments

	action, ok := s.dispatch.lookup(segments)
	if !ok {
		if len(segments) >= 1 && segments[0] == "error" {
			http.NotFound(rsp.w, rsp.r)
			return
		}
		rsp.Reroute([]string{"error", "404"}, false)
		return
	}

	actionsTotal.WithLabelValues(strings.Join(segments, "/")).Inc()
	action(rsp, rsp.r)
}

// ParseBatch decodes the named batch from a JSON request body of the form
// {"<name>": [{"Z": "create", ...}, ...]}.
func ParseBatch(r *http.Request, name string) ([]form.BatchRow, error) {
	var payload map[string][]form.BatchRow
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("web: decode batch: %w", err)
	}
	return payload[name], nil
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
