package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-shapefield/internal/app"
	"github.com/coreman2200/funtimes-shapefield/internal/config"
	"github.com/coreman2200/funtimes-shapefield/internal/driver/fake"
	"github.com/coreman2200/funtimes-shapefield/internal/persist"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

func TestInitEngineEmptyShapesClosesDrivers(t *testing.T) {
	cfg := config.Default()
	cfg.Shapes = nil
	drv := &fake.Driver{}
	_, err := initEngine(cfg, app.CoreOptions{Store: persist.NewMemStore(), Drivers: []render.Driver{drv}, Log: zerolog.Nop()})
	assert.ErrorIs(t, err, app.ErrInactive)
	assert.ErrorIs(t, drv.Write(render.Frame{}), fake.ErrClosed)
}

func TestInitEngineKeepsDrivers(t *testing.T) {
	drv := &fake.Driver{}
	core, err := initEngine(config.Default(), app.CoreOptions{Store: persist.NewMemStore(), Drivers: []render.Driver{drv}, Log: zerolog.Nop()})
	require.NoError(t, err)
	require.NotNil(t, core)
	assert.NoError(t, drv.Write(render.Frame{}))
}

func TestCORSPreflight(t *testing.T) {
	h := withCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
