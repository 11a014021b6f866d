// Package http exposes a suppfetch.LookupService over HTTP using chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":5000"

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves lookups over HTTP.
type Server struct {
	Service suppfetch.LookupService

	// Asker answers questions on /ask. The endpoint returns 501 when nil.
	Asker suppfetch.Asker

	Logger *slog.Logger
}

// NewServer creates a Server for svc.
func NewServer(svc suppfetch.LookupService, logger *slog.Logger) *Server {
	return &Server{Service: svc, Logger: logger}
}

// Router returns the HTTP handler with all routes and middleware installed.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger()))
	r.Use(middleware.Recoverer)

	r.Get("/fetch", s.lookup(suppfetch.ModeContent))
	r.Get("/fetch-fields", s.lookup(suppfetch.ModeFields))
	r.Get("/elements", s.lookup(suppfetch.ModeElements))
	r.Get("/overview", s.overview)
	r.Get("/ask", s.ask)
	r.Get("/health", s.health)

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps application error codes to HTTP responses. Only messages of
// caller errors are exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := suppfetch.ErrorCode(err), suppfetch.ErrorMessage(err)
	switch code {
	case suppfetch.EINVALID:
		writeJSONStatus(w, errorResponse{Error: message}, http.StatusBadRequest)
	case suppfetch.ENOTFOUND:
		writeJSONStatus(w, errorResponse{Error: message}, http.StatusNotFound)
	default:
		s.logger().Error("request failed",
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"code", code,
			"err", err,
		)
		writeJSONStatus(w, errorResponse{Error: "Internal Server Error"}, http.StatusInternalServerError)
	}
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}
