package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/calgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, sample bool) (*mux.Router, *Dependencies) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Events.SampleData = sample

	deps, err := BuildDependencies(cfg)
	require.NoError(t, err)
	r := mux.NewRouter()
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)
	return r, deps
}

func TestRoutes_SampleData(t *testing.T) {
	r, deps := setupRouter(t, true)

	snapshot, _ := deps.Store.Snapshot()
	assert.NotEmpty(t, snapshot.Events.Events)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/view", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		From string   `json:"from"`
		Days []string `json:"days"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Len(t, view.Days, 7)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/layout/week?date="+view.From, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Team meeting")
}

func TestRoutes_StateDispatch(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/state/dispatch", strings.NewReader(`{"type":"calendar/setView","payload":"month"}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/view", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"view":"month"`)
}

func TestRoutes_Settings(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var settings SettingsDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&settings))
	assert.Equal(t, 768, settings.MobileBreakpoint)
	assert.Len(t, settings.Categories, 5)
	assert.NotEmpty(t, settings.Palette)
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	r := mux.NewRouter()
	SetupMiddleware(r, &Dependencies{}, config.Application{})
	r.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("malformed time")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
