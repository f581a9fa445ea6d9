package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.fiblab.net/sim/tripplanner/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.Routing.WalkThresholdM)
	assert.Equal(t, 4.5, cfg.Tariff.WalkingSpeedKmh)
	assert.Equal(t, 0.33, cfg.Tariff.DwellTimePerStopMin)
	assert.Equal(t, 1.5, cfg.Crowd.PeakMultiplier)
	assert.Equal(t, time.Hour, cfg.Updater.Interval)
	assert.NoError(t, config.Validate(config.Default()))
}

func TestLoadYAML(t *testing.T) {
	file := writeFile(t, "config.yml", `
server:
  listen: ":8080"
data:
  stations: transit.stations
  shapes: gtfs/shapes.txt
tariff:
  grab_base_fare: 2.5
  route_speed_kmh:
    KJ: 35
routing:
  walk_threshold_m: 500
remote:
  timeout: 2s
`)
	cfg, err := config.Load(file, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "transit.stations", cfg.Data.Stations)
	assert.Equal(t, 2.5, cfg.Tariff.GrabBaseFare)
	assert.Equal(t, 35.0, cfg.Tariff.RouteSpeed("KJ"))
	// 未配置项保持默认值
	assert.Equal(t, 0.65, cfg.Tariff.GrabPerKm)
	assert.Equal(t, 500.0, cfg.Routing.WalkThresholdM)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, time.Hour, cfg.Remote.CacheTTL)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LISTEN", "0.0.0.0:9000")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Data.MongoURI)
}

func TestDotEnv(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("AI_ESTIMATOR_URL") })
	env := writeFile(t, ".env", "AI_ESTIMATOR_URL=http://estimator.local:8000\n")
	cfg, err := config.Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "http://estimator.local:8000", cfg.Remote.EstimatorURL)
}

func TestInvalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	file := writeFile(t, "bad.yml", "routing:\n  walk_threshold_m: 0\n")
	_, err := config.Load(file, missing)
	assert.Error(t, err)

	file = writeFile(t, "bad-url.yml", "remote:\n  osrm_url: not a url\n")
	_, err = config.Load(file, missing)
	assert.Error(t, err)

	file = writeFile(t, "bad-band.yml", "crowd:\n  peak_bands:\n    - {from: 8, to: 30, factor: 1.5}\n")
	_, err = config.Load(file, missing)
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "none.yml"), missing)
	assert.Error(t, err)
}
