package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const requestIdHeader = "X-Request-ID"

type requestIdKey struct{}

// RequestId returns the id assigned to the request by the request id middleware.
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestIdMiddleware)
	r.Use(loggingMiddleware)
	if cfg.Metrics.Enabled {
		r.Use(metrics.HTTPMiddleware)
	}
}

// requestIdMiddleware keeps a caller supplied X-Request-ID and generates one otherwise.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIdHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIdKey{}, id)))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &metrics.StatusRecorder{ResponseWriter: w}

		next.ServeHTTP(recorder, r)

		if recorder.Status == 0 {
			recorder.Status = http.StatusOK
		}
		log.WithFields(log.Fields{
			"request_id": RequestId(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     recorder.Status,
			"latency":    time.Since(start),
			"user-agent": r.UserAgent(),
			"ip":         clientIp(r),
		}).Info("http request processed")
	})
}

func clientIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// csrfMiddleware rejects state-changing requests that do not carry the token issued with the form.
// Without csrf.secure the server is reached over plain HTTP, so requests are marked as such and
// the cookie is sent without the Secure flag.
func csrfMiddleware(cfg config.Application) mux.MiddlewareFunc {
	protect := csrf.Protect(cfg.CsrfKey(),
		csrf.Secure(cfg.Csrf.Secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if cfg.Csrf.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	log.WithField("request_id", RequestId(r.Context())).
		Warnf("csrf validation failed for %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
}
