// Package server serves contestant configurations to browser harnesses,
// which load config.js through a script tag.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/weiihann/vdombench/contestant"
)

const (
	contentTypeJS   = "application/javascript; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// Config holds parameters for the HTTP server.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Primary is served at /config.js. Nil selects the root variant.
	Primary *contestant.Config
}

// Server serves registration scripts and their JSON payloads.
type Server struct {
	cfg     Config
	primary *contestant.Config
	router  *mux.Router
	logger  *slog.Logger
}

// New creates a Server and registers its routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	primary := cfg.Primary
	if primary == nil {
		var err error

		primary, err = contestant.Builtin(contestant.VariantRoot)
		if err != nil {
			return nil, fmt.Errorf("load primary config: %w", err)
		}
	}

	s := &Server{
		cfg:     cfg,
		primary: primary.Clone(),
		router:  mux.NewRouter(),
		logger:  logger.With(slog.String("component", "server")),
	}

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/config.js", s.handlePrimary(true)).
		Methods(http.MethodGet)
	s.router.HandleFunc("/contestants.json", s.handlePrimary(false)).
		Methods(http.MethodGet)
	s.router.HandleFunc("/{variant}/config.js", s.handleVariant(true)).
		Methods(http.MethodGet)
	s.router.HandleFunc("/{variant}/contestants.json", s.handleVariant(false)).
		Methods(http.MethodGet)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.InfoContext(ctx, "serving configurations",
		slog.String("addr", ln.Addr().String()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handlePrimary(script bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.write(w, r, s.primary, script)
	}
}

func (s *Server) handleVariant(script bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variant := mux.Vars(r)["variant"]

		cfg, err := contestant.Builtin(variant)
		if errors.Is(err, contestant.ErrUnknownVariant) {
			http.NotFound(w, r)

			return
		}
		if err != nil {
			s.fail(w, r, err)

			return
		}

		s.write(w, r, cfg, script)
	}
}

func (s *Server) write(
	w http.ResponseWriter,
	r *http.Request,
	cfg *contestant.Config,
	script bool,
) {
	var (
		buf bytes.Buffer
		err error
	)

	contentType := contentTypeJSON
	if script {
		contentType = contentTypeJS
		err = contestant.Encode(&buf, cfg)
	} else {
		err = contestant.EncodeJSON(&buf, cfg)
	}

	if err != nil {
		s.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	http.Error(w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.DebugContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
