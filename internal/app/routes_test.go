package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerStub struct {
	err error
}

func (p pingerStub) Ping(ctx context.Context) error {
	return p.err
}

var csrfFieldPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func testConfig() config.Application {
	return config.Application{
		Server:   config.Server{Addr: ":0"},
		Database: config.Database{Url: "postgres://unused", MaxConns: 1},
		Csrf:     config.Csrf{Key: "0123456789abcdef0123456789abcdef"},
		Metrics:  config.Metrics{Enabled: true},
	}
}

func setupRouter(t *testing.T, db Pinger) (http.Handler, *event.RepositoryStub) {
	repo := event.NewRepositoryStub()
	clock := utils.FixedClock{At: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	deps, err := buildDependencies(db, repo, clock, testConfig())
	require.NoError(t, err)
	return NewRouter(deps, testConfig()), repo
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRouter_CreateWithCsrfToken(t *testing.T) {
	// given
	router, repo := setupRouter(t, pingerStub{})

	formPage := serve(router, httptest.NewRequest(http.MethodGet, "/calendars/create", nil))
	require.Equal(t, http.StatusOK, formPage.Code)
	match := csrfFieldPattern.FindStringSubmatch(formPage.Body.String())
	require.Len(t, match, 2, "form should carry a csrf field")

	form := url.Values{
		"gorilla.csrf.Token": {match[1]},
		"title":              {"Standup"},
		"dateTime":           {"2024-01-10T09:00"},
		"hasReminder":        {"on"},
		"reminderMinutes":    {"15"},
	}
	req := formRequest("/calendars/create", form)
	for _, c := range formPage.Result().Cookies() {
		req.AddCookie(c)
	}

	// when
	rr := serve(router, req)

	// then
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/calendars", rr.Header().Get("Location"))
	events, err := repo.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)
}

func TestRouter_RejectsSubmissionWithoutCsrfToken(t *testing.T) {
	router, repo := setupRouter(t, pingerStub{})

	rr := serve(router, formRequest("/calendars/create", url.Values{
		"title":           {"Standup"},
		"dateTime":        {"2024-01-10T09:00"},
		"reminderMinutes": {"0"},
	}))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	events, _ := repo.ListEvents(context.Background())
	assert.Empty(t, events)
}

func TestRouter_RejectsDeleteWithoutCsrfToken(t *testing.T) {
	router, repo := setupRouter(t, pingerStub{})
	_, err := repo.StoreEvent(context.Background(), event.Event{Title: "Standup", DateTime: time.Now()})
	require.NoError(t, err)

	rr := serve(router, formRequest("/calendars/1/delete", url.Values{}))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	_, err = repo.GetEvent(context.Background(), 1)
	assert.NoError(t, err)
}

func TestRouter_RootRedirectsToList(t *testing.T) {
	router, _ := setupRouter(t, pingerStub{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/calendars", rr.Header().Get("Location"))
}

func TestRouter_NonNumericIdDoesNotMatch(t *testing.T) {
	router, _ := setupRouter(t, pingerStub{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/calendars/abc", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Export(t *testing.T) {
	router, repo := setupRouter(t, pingerStub{})
	_, err := repo.StoreEvent(context.Background(), event.Event{Title: "Standup", DateTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/calendars/export.ics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "SUMMARY:Standup")
}

func TestRouter_Healthz(t *testing.T) {
	t.Run("should report a reachable database", func(t *testing.T) {
		router, _ := setupRouter(t, pingerStub{})

		rr := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("should report an unreachable database", func(t *testing.T) {
		router, _ := setupRouter(t, pingerStub{err: errors.New("connection refused")})

		rr := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := setupRouter(t, pingerStub{})
	serve(router, httptest.NewRequest(http.MethodGet, "/calendars", nil))

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `eventcal_http_requests_total{method="GET",route="/calendars",status="200"}`)
}
