// Package control serves a small HTTP API for changing the running scene: the mode, the
// central model, the two toggles and the light. Requests are handed to a Target, which runs
// them on the render loop, and every response carries the resulting state.
package control

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by a Target that no longer accepts commands.
var ErrUnavailable = errors.New("control target unavailable")

// Target executes commands against the scene on the goroutine that owns it.
type Target interface {
	// Do runs fn on the scene and returns the state after it ran.
	//
	// Parameters:
	//   - ctx: bounds how long to wait for the owner to pick the command up
	//   - fn: the command; it must not retain the scene
	//
	// Returns:
	//   - scene.State: the state after fn
	//   - error: the error of fn, ErrUnavailable, or ctx.Err()
	Do(ctx context.Context, fn func(scene.Scene) error) (scene.State, error)

	// Quit asks the owner to shut down.
	Quit()
}

// Server is the HTTP control surface.
type Server struct {
	router   *mux.Router
	target   Target
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	timeout  time.Duration

	srv *http.Server
}

// ServerOption configures a Server in NewServer.
type ServerOption func(*Server)

// WithLogger sets the request logger, named "control".
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger.Named("control")
		}
	}
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithTimeout bounds how long a request waits for the target.
func WithTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewServer creates a Server driving target. A nil target panics.
//
// Parameters:
//   - target: the command executor
//   - options: functional options
//
// Returns:
//   - *Server: the server, ready for ServeHTTP or ListenAndServe
func NewServer(target Target, options ...ServerOption) *Server {
	if target == nil {
		panic("control: nil target")
	}
	s := &Server{
		router:   mux.NewRouter(),
		target:   target,
		logger:   zap.NewNop(),
		gatherer: prometheus.DefaultGatherer,
		timeout:  2 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	s.srv = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) initRoutes() {
	r := s.router
	r.HandleFunc("/state", s.getState).Methods("GET")
	r.HandleFunc("/models", s.getModels).Methods("GET")
	r.HandleFunc("/mode/{n:[0-9]+}", s.putMode).Methods("PUT")
	r.HandleFunc("/model/{n:[0-9]+}", s.putModel).Methods("PUT")
	r.HandleFunc("/toggle/ground", s.toggleGround).Methods("POST")
	r.HandleFunc("/toggle/spheres", s.toggleSpheres).Methods("POST")
	r.HandleFunc("/light", s.putLight).Methods("PUT")
	r.HandleFunc("/quit", s.postQuit).Methods("POST")
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.Use(s.addRequestID, s.logRequest)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until Shutdown is called.
//
// Parameters:
//   - addr: the listen address
//
// Returns:
//   - error: the listen error, or nil after Shutdown
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("control server listening", zap.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a server started with ListenAndServe or Serve.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
