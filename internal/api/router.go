// Package api serves the measurement engine over HTTP: unit conversion,
// amount formatting, ingredient display, recipes and shopping lists.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Server holds the handlers' dependencies.
type Server struct {
	engine *engine.Engine
	parser domain.IngredientParser
	log    *logger.Logger
}

// NewServer creates a server over eng. parser reads the free-text lines of
// display requests; when nil, such requests are rejected.
func NewServer(eng *engine.Engine, parser domain.IngredientParser, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{engine: eng, parser: parser, log: log.With("api")}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Get("/units", s.Units)
		r.Post("/convert", s.Convert)
		r.Post("/format", s.Format)
		r.Post("/display", s.Display)
		r.Get("/recipes", s.Recipes)
		r.Get("/recipes/{id}", s.Recipe)
		r.Post("/shopping-list", s.ShoppingList)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: "no such endpoint"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, &APIError{Code: ErrCodeBadRequest, Message: "method not allowed"})
	})
	return r
}

// ListenAndServe serves on bind until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.log.Info("listening on %s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		s.log.Info("stopped")
		return nil
	}
}
