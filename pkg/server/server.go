package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/glint-ui/glint/pkg/glint"
)

// Server accepts WebSocket connections and runs one glint session per
// connection. The root factory is called once per session, so sessions do
// not share component state.
type Server struct {
	cfg    *Config
	logger *slog.Logger
	m      *metrics
	tracer trace.Tracer

	root     func() glint.Descriptor
	upgrader websocket.Upgrader

	mux        chi.Router
	httpServer *http.Server

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger     *slog.Logger
	registry   prometheus.Registerer
	gatherer   prometheus.Gatherer
	tracerName string
	namespace  string
}

// WithLogger sets the server's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithRegistry sets the Prometheus registry metrics register against.
// Default: the global default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *serverOptions) {
		o.registry = reg
		o.gatherer = reg
	}
}

// WithMetricsNamespace sets the metrics namespace. Default: "glint".
func WithMetricsNamespace(ns string) Option {
	return func(o *serverOptions) { o.namespace = ns }
}

// WithTracerName sets the OpenTelemetry tracer name. Default: "glint".
func WithTracerName(name string) Option {
	return func(o *serverOptions) { o.tracerName = name }
}

// New creates a server rendering root for each session.
func New(root func() glint.Descriptor, cfg *Config, opts ...Option) *Server {
	cfg = cfg.withDefaults()

	o := &serverOptions{
		logger:     slog.Default(),
		registry:   prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		tracerName: "glint",
		namespace:  "glint",
	}
	for _, opt := range opts {
		opt(o)
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = sameHostOrigin
	}

	s := &Server{
		cfg:    cfg,
		logger: o.logger.With("component", "server"),
		m:      newMetrics(o.registry, o.namespace),
		tracer: otel.Tracer(o.tracerName),
		root:   root,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     checkOrigin,
		},
		sessions: make(map[string]*Session),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	r.Get("/", s.handleIndex)
	s.mux = r

	return s
}

// Handler returns the server's HTTP handler for mounting in an external
// router or test server.
func (s *Server) Handler() http.Handler { return s.mux }

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully, closing live sessions.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.mux,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.cfg.Address)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	err := <-errc
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		s.m.wsErrors.WithLabelValues("upgrade").Inc()
		return
	}

	sess := newSession(conn, s.root, s.cfg, s.logger, s.m, s.tracer)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.m.sessionsTotal.Inc()
	s.m.activeSessions.Inc()
	s.logger.Info("session started", "session", sess.ID, "remote", r.RemoteAddr)

	sess.run(r.Context())
	sess.Close()

	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	s.m.activeSessions.Dec()
	s.logger.Info("session ended", "session", sess.ID)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>glint</title></head>
<body>
<div id="app"></div>
<script>
// Placeholder shell. A real deployment serves the glint thin client here,
// which connects to /ws and applies patch batches to #app.
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

// sameHostOrigin accepts requests with no Origin header or an Origin whose
// host matches the request host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
