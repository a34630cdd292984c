package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/database"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 3 * time.Second

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	pool *pgxpool.Pool
	srv  *http.Server
}

// NewApplication opens the database, makes sure the events table exists and builds the HTTP server.
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(pool, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	if err := deps.EventService.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	r := NewRouter(deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{pool: pool, srv: srv}, nil
}

// NewRouter builds the complete HTTP handler: middleware first, then routes.
func NewRouter(deps *Dependencies, cfg config.Application) *mux.Router {
	r := mux.NewRouter()
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)
	return r
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and closes the pool.
func (a *Application) Run(ctx context.Context) error {
	defer a.pool.Close()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown failed: %v", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}
