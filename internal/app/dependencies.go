package app

import (
	"context"
	"fmt"
	"html/template"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/event_bus"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/event"
	"github.com/klokku/eventcal/web"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	DB Pinger

	EventBus *event_bus.EventBus

	EventRepository event.Repository
	EventService    *event.Service
	EventController *event.Controller
	EventHandler    *event.Handler
	ExportHandler   *event.ExportHandler

	Templates *template.Template
	Clock     utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(pool *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	return buildDependencies(pool, event.NewRepository(pool), utils.SystemClock{}, cfg)
}

func buildDependencies(db Pinger, repo event.Repository, clock utils.Clock, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{DB: db, Clock: clock}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	deps.Templates = templates

	deps.EventBus = event_bus.NewEventBus()
	subscribeAudit(deps.EventBus)
	if cfg.Metrics.Enabled {
		subscribeMetrics(deps.EventBus)
	}

	deps.EventRepository = repo
	deps.EventService = event.NewService(deps.EventRepository, deps.EventBus)
	deps.EventController = event.NewController(deps.EventService)
	deps.EventHandler = event.NewHandler(deps.EventController, deps.Templates)
	deps.ExportHandler = event.NewExportHandler(deps.EventService, deps.Clock)

	return deps, nil
}
