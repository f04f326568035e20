package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FRAMEPOOL_LOG_LEVEL", "")
	t.Setenv("FRAMEPOOL_LOG_FORMAT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

func TestParseAppliesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse(strings.NewReader("{}"))
	require.NoError(t, err)

	require.Equal(t, Environment("development"), cfg.Environment)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.Equal(t, 1000, cfg.Pools.LeakThreshold)
	require.Equal(t, "framepool", cfg.Telemetry.ServiceName)
	require.Equal(t, 15*time.Second, cfg.Telemetry.MetricInterval)
	require.Equal(t, 600, cfg.Sim.Frames)
	require.Equal(t, 60, cfg.Sim.FPS)
	require.Equal(t, 1, cfg.Sim.Worlds)
	require.Equal(t, 128, cfg.Sim.Entities)
	require.Nil(t, cfg.Pools.Thresholds())
}

func TestParseReadsOverrides(t *testing.T) {
	clearEnv(t)
	doc := `
environment: Staging
logging:
  level: DEBUG
  format: json
pools:
  leakThreshold: -1
  overrides:
    " list[int] ":
      leakThreshold: 32
telemetry:
  otlpEndpoint: " http://collector:4318 "
  metricInterval: 2s
sim:
  frames: 10
  fps: 0
  worlds: 3
  leakEvery: 5
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, Environment("staging"), cfg.Environment)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, -1, cfg.Pools.LeakThreshold)
	require.Equal(t, map[string]int{"list[int]": 32}, cfg.Pools.Thresholds())
	require.Equal(t, 10, cfg.Sim.Frames)
	require.Equal(t, 3, cfg.Sim.Worlds)
	require.Equal(t, 5, cfg.Sim.LeakEvery)

	tc := cfg.TelemetryConfig()
	require.True(t, tc.Enabled)
	require.Equal(t, "http://collector:4318", tc.OTLPEndpoint)
	require.Equal(t, 2*time.Second, tc.MetricInterval)
	require.Equal(t, "staging", tc.Environment)
}

func TestParseRejectsInvalid(t *testing.T) {
	clearEnv(t)
	doc := `
logging:
  format: xml
pools:
  overrides:
    "":
      leakThreshold: 4
sim:
  leakEvery: -1
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "logging.format")
	require.Contains(t, err.Error(), "pools.overrides: empty pool name")
	require.Contains(t, err.Error(), "sim.leakEvery")
}

func TestOverrideThresholdsInheritOrDisable(t *testing.T) {
	clearEnv(t)
	doc := `
pools:
  leakThreshold: 500
  overrides:
    "list[int]":
      leakThreshold: 0
    "builder": {}
    "map[int]int":
      leakThreshold: -1
    "array[float64]":
      leakThreshold: 64
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, map[string]int{"map[int]int": -1, "array[float64]": 64}, cfg.Pools.Thresholds())

	onlyInherit, err := Parse(strings.NewReader("pools:\n  overrides:\n    \"list[int]\": {}\n"))
	require.NoError(t, err)
	require.Nil(t, onlyInherit.Pools.Thresholds())
}

func TestLoadOrDefaultNormalisesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FRAMEPOOL_LOG_FORMAT", "JSON")
	t.Setenv("FRAMEPOOL_LOG_LEVEL", " Debug ")

	cfg, loaded, err := LoadOrDefault(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.False(t, loaded)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("pools: [unterminated"))
	require.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FRAMEPOOL_LOG_LEVEL", "warn")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4318")

	cfg, err := Parse(strings.NewReader("logging:\n  level: debug\n"))
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "otel:4318", cfg.Telemetry.OTLPEndpoint)
}

func TestLoadOrDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, loaded, err := LoadOrDefault(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.False(t, loaded)
	require.Equal(t, 1000, cfg.Pools.LeakThreshold)

	path := filepath.Join(dir, "framepool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  worlds: 4\n"), 0o600))

	cfg, loaded, err = LoadOrDefault(context.Background(), path)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, 4, cfg.Sim.Worlds)
}

func TestShippedConfigIsValid(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(context.Background(), filepath.Join("..", "..", "config", "framepool.yaml"))
	require.NoError(t, err)
	require.Equal(t, 256, cfg.Pools.Thresholds()["list[int]"])
}
