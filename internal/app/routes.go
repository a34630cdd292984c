package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/metrics"
	"github.com/klokku/eventcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Operations
	r.HandleFunc("/healthz", healthHandler(deps.DB)).Methods("GET")
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	// Pages, every form submission needs a CSRF token
	pages := r.NewRoute().Subrouter()
	pages.Use(csrfMiddleware(cfg))

	pages.Handle("/", http.RedirectHandler(event.ListPath, http.StatusSeeOther)).Methods("GET")

	// Events
	pages.HandleFunc("/calendars", deps.EventHandler.List).Methods("GET")
	pages.HandleFunc("/calendars/export.ics", deps.ExportHandler.ExportICS).Methods("GET")
	pages.HandleFunc("/calendars/create", deps.EventHandler.CreateForm).Methods("GET")
	pages.HandleFunc("/calendars/create", deps.EventHandler.SubmitCreate).Methods("POST")
	pages.HandleFunc("/calendars/{id:[0-9]+}", deps.EventHandler.Details).Methods("GET")
	pages.HandleFunc("/calendars/{id:[0-9]+}/edit", deps.EventHandler.EditForm).Methods("GET")
	pages.HandleFunc("/calendars/{id:[0-9]+}/edit", deps.EventHandler.SubmitEdit).Methods("POST")
	pages.HandleFunc("/calendars/{id:[0-9]+}/delete", deps.EventHandler.DeleteConfirm).Methods("GET")
	pages.HandleFunc("/calendars/{id:[0-9]+}/delete", deps.EventHandler.SubmitDelete).Methods("POST")
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := db.Ping(ctx); err != nil {
			log.Errorf("health check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}
}
