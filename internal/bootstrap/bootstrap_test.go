package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unidwh/internal/config"
)

func TestLoadConfigAndSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n  format: json\nload:\n  dedupe_grades: true\n"), 0o644))

	cfg, _, err := LoadConfigAndSetupLogger(path)
	require.NoError(t, err)
	assert.True(t, cfg.Load.DedupeGrades)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestSetupRouter_ServesPingAndMetrics(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Server.Mode = "production"

	deps := BuildDependencies(cfg, nil, zerolog.Nop())
	router := SetupRouter(cfg, deps, zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/grade-averages?layout=wide", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
