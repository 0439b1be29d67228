package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aalemi-dev/svckit/dto"
	"github.com/aalemi-dev/svckit/metrics"
	"github.com/aalemi-dev/svckit/middleware"
	"github.com/aalemi-dev/svckit/tracing"
)

// Dependencies are the collaborators wired into the server. Every field is
// optional; a zero Dependencies value yields a working server with the
// operational endpoints and no instrumentation.
type Dependencies struct {
	// Logger receives the access log and recovery log lines.
	Logger Logger

	// Tracer enables the request tracing and trace response header
	// middlewares.
	Tracer tracing.Tracer

	// Metrics enables the request latency histogram and the /metrics
	// endpoint, served from its application registry.
	Metrics *metrics.Metrics

	// Reporter receives panics caught by the recovery middleware,
	// normally a *sentry.Client.
	Reporter middleware.PanicReporter

	// Checks are the readiness probes aggregated by /ready.
	Checks []Check

	// Version is the build descriptor served by /version. When nil it is
	// read from the environment.
	Version *dto.Version
}

// Server is the kit's HTTP server: a chi router carrying the standard
// middleware stack and operational endpoints, with graceful start and stop.
//
// Implements http.Handler, so it can be driven directly in tests without
// opening a listener.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
	logger     Logger
	checks     []Check
	version    dto.Version

	addr string
}

// NewServer creates a new Server from the configuration and collaborators.
// Construction builds the full router but opens no listener; Start does
// that, so a Server can be built and have routes mounted before any traffic
// is possible.
//
// The middleware ordering follows the middleware package's contract:
// tracing outermost, then access log, trace response headers, recovery, and
// the latency histogram innermost. Missing collaborators drop only their own
// layer.
//
// Returns *Server concrete type (following Go best practice: "accept interfaces, return structs").
func NewServer(cfg Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = nopLogger{}
	}

	version := dto.Version{}
	if deps.Version != nil {
		version = *deps.Version
	} else if fromEnv, err := dto.VersionFromEnv(); err == nil {
		version = fromEnv
	}

	s := &Server{
		cfg:     cfg,
		logger:  log,
		checks:  deps.Checks,
		version: version,
	}

	component := cfg.Component
	if component == "" {
		component = defaultComponent
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}))
	}

	if deps.Tracer != nil {
		r.Use(middleware.Tracing(deps.Tracer, component))
	}
	r.Use(middleware.AccessLog(log))
	if deps.Tracer != nil {
		r.Use(middleware.TraceResponseHeaders(deps.Tracer))
	}
	r.Use(middleware.Recovery(log, deps.Reporter))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics.CreateHTTPServerDuration()))
	}

	r.Get("/alive", s.handleAlive)
	r.Get("/ready", s.handleReady)
	r.Get("/version", s.handleVersion)
	r.Get("/error", s.handleError)
	if deps.Metrics != nil && deps.Metrics.ApplicationRegistry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.Metrics.ApplicationRegistry, promhttp.HandlerOpts{}))
	}

	s.router = r

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	idleTimeout := cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = defaultIdleTimeout
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

// Router exposes the underlying chi router for mounting application routes.
// Routes mounted here run inside the full middleware stack.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler by delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the address the server is listening on, resolved after
// Start. Useful with port 0, where the kernel picks the port.
func (s *Server) Addr() string {
	return s.addr
}

// Start opens the listener and begins serving in a background goroutine.
// A port that cannot be bound fails here, synchronously, so a misconfigured
// service dies at startup instead of running unreachable.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.addr = listener.Addr().String()

	s.logger.InfoWithContext(ctx, "http server listening", nil, map[string]interface{}{
		"addr": s.addr,
	})

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorWithContext(context.Background(), "http server terminated", err, nil)
		}
	}()

	return nil
}

// Shutdown drains in-flight requests and closes the listener, waiting at
// most the configured shutdown timeout. Requests still running when the
// timeout elapses are abandoned.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.logger.InfoWithContext(ctx, "http server shutting down", nil, nil)
	return s.httpServer.Shutdown(ctx)
}

// handleAlive is the liveness endpoint. It proves only that the process
// accepts connections; backing services are /ready's concern.
func (s *Server) handleAlive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady runs the configured probes and aggregates them. The endpoint
// itself never fails: a broken backend shows up as a failing check in a 503
// response, not as an error from the probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	serviceChecks := make([]dto.ServiceCheck, 0, len(s.checks))
	for _, check := range s.checks {
		ok, detail := check.Probe(ctx)
		serviceChecks = append(serviceChecks, dto.ServiceCheck{
			Service: check.Service,
			IsReady: ok,
			Error:   detail,
		})
	}

	response := dto.NewReadyResponse(serviceChecks)
	status := http.StatusOK
	if !response.IsReady {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, r, status, response)
}

// handleVersion serves the build descriptor.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.version)
}

// handleError deliberately panics. It exists so operators can verify the
// whole error pipeline of a deployed service — recovery envelope, error log,
// Sentry event — with one request.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	s.logger.ErrorWithContext(r.Context(), "test exception via logging", nil, nil)
	panic("test exception via raise")
}

// writeJSON writes v as a JSON response body with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	payload, err := dto.Marshal(v)
	if err != nil {
		s.logger.ErrorWithContext(r.Context(), "failed to encode response", err, nil)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
