// Package config loads framepool configuration from YAML.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coachpo/framepool/internal/observability"
	"github.com/coachpo/framepool/internal/telemetry"
)

const (
	defaultLeakThreshold  = 1000
	defaultMetricInterval = 15 * time.Second
	defaultServiceName    = "framepool"
	defaultFrames         = 600
	defaultFPS            = 60
	defaultWorlds         = 1
	defaultEntities       = 128
)

// Environment identifies where the process runs.
type Environment string

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PoolOverride tunes a single named pool. A LeakThreshold of 0 inherits
// pools.leakThreshold and a negative value disables leak warnings.
type PoolOverride struct {
	LeakThreshold int `yaml:"leakThreshold"`
}

// PoolsConfig controls leak diagnostics for every pool in a registry.
type PoolsConfig struct {
	LeakThreshold int                     `yaml:"leakThreshold"`
	Overrides     map[string]PoolOverride `yaml:"overrides"`
}

// TelemetryConfig configures the OTLP metrics exporter.
type TelemetryConfig struct {
	OTLPEndpoint   string        `yaml:"otlpEndpoint"`
	OTLPInsecure   bool          `yaml:"otlpInsecure"`
	ServiceName    string        `yaml:"serviceName"`
	MetricInterval time.Duration `yaml:"metricInterval"`
}

// SimConfig drives the frame simulator.
type SimConfig struct {
	Frames   int `yaml:"frames"`
	FPS      int `yaml:"fps"`
	Worlds   int `yaml:"worlds"`
	Entities int `yaml:"entities"`
	// LeakEvery skips one release every N frames; 0 releases everything.
	LeakEvery int `yaml:"leakEvery"`
}

// AppConfig is the complete framepool configuration.
type AppConfig struct {
	Environment Environment     `yaml:"environment"`
	Logging     LoggingConfig   `yaml:"logging"`
	Pools       PoolsConfig     `yaml:"pools"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Sim         SimConfig       `yaml:"sim"`
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	cfg := AppConfig{}
	cfg.normalise()
	return cfg
}

// Load reads, normalises and validates the configuration at path.
func Load(ctx context.Context, path string) (AppConfig, error) {
	_ = ctx

	reader, closer, err := openConfigFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	defer closer()

	return Parse(reader)
}

// LoadOrDefault behaves like Load but falls back to Default when the file does
// not exist. The boolean reports whether the file was read.
func LoadOrDefault(ctx context.Context, path string) (AppConfig, bool, error) {
	cfg, err := Load(ctx, path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = AppConfig{}
		cfg.applyEnv()
		cfg.normalise()
		return cfg, false, cfg.Validate()
	}
	return AppConfig{}, false, err
}

// Parse decodes configuration from r.
func Parse(r io.Reader) (AppConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyEnv()
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("FRAMEPOOL_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FRAMEPOOL_LOG_FORMAT")); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
}

func (c *AppConfig) normalise() {
	c.Environment = Environment(strings.ToLower(strings.TrimSpace(string(c.Environment))))
	if c.Environment == "" {
		c.Environment = "development"
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = observability.FormatConsole
	}

	if c.Pools.LeakThreshold == 0 {
		c.Pools.LeakThreshold = defaultLeakThreshold
	}
	if len(c.Pools.Overrides) > 0 {
		trimmed := make(map[string]PoolOverride, len(c.Pools.Overrides))
		for name, o := range c.Pools.Overrides {
			trimmed[strings.TrimSpace(name)] = o
		}
		c.Pools.Overrides = trimmed
	}

	c.Telemetry.OTLPEndpoint = strings.TrimSpace(c.Telemetry.OTLPEndpoint)
	c.Telemetry.ServiceName = strings.TrimSpace(c.Telemetry.ServiceName)
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaultServiceName
	}
	if c.Telemetry.MetricInterval <= 0 {
		c.Telemetry.MetricInterval = defaultMetricInterval
	}

	if c.Sim.Frames == 0 {
		c.Sim.Frames = defaultFrames
	}
	if c.Sim.FPS == 0 {
		c.Sim.FPS = defaultFPS
	}
	if c.Sim.Worlds == 0 {
		c.Sim.Worlds = defaultWorlds
	}
	if c.Sim.Entities == 0 {
		c.Sim.Entities = defaultEntities
	}
}

// Validate reports configuration values that cannot be used.
func (c AppConfig) Validate() error {
	var errs []error
	switch c.Logging.Format {
	case observability.FormatConsole, observability.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	for name := range c.Pools.Overrides {
		if name == "" {
			errs = append(errs, errors.New("pools.overrides: empty pool name"))
		}
	}
	if c.Sim.Frames < 0 {
		errs = append(errs, errors.New("sim.frames: must be >= 0"))
	}
	if c.Sim.FPS < 0 {
		errs = append(errs, errors.New("sim.fps: must be >= 0"))
	}
	if c.Sim.Worlds < 0 {
		errs = append(errs, errors.New("sim.worlds: must be >= 0"))
	}
	if c.Sim.Entities < 0 {
		errs = append(errs, errors.New("sim.entities: must be >= 0"))
	}
	if c.Sim.LeakEvery < 0 {
		errs = append(errs, errors.New("sim.leakEvery: must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Thresholds returns the per-pool leak thresholds keyed by pool name. Overrides
// left at 0 inherit the top-level threshold and are omitted.
func (c PoolsConfig) Thresholds() map[string]int {
	var out map[string]int
	for name, o := range c.Overrides {
		if o.LeakThreshold == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]int, len(c.Overrides))
		}
		out[name] = o.LeakThreshold
	}
	return out
}

// TelemetryConfig converts the YAML section to provider settings.
func (c AppConfig) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:         c.Telemetry.OTLPEndpoint != "",
		OTLPEndpoint:    c.Telemetry.OTLPEndpoint,
		OTLPInsecure:    c.Telemetry.OTLPInsecure,
		MetricInterval:  c.Telemetry.MetricInterval,
		ShutdownTimeout: 5 * time.Second,
		ServiceName:     c.Telemetry.ServiceName,
		ServiceVersion:  "1.0.0",
		Environment:     string(c.Environment),
	}
}

func openConfigFile(path string) (io.Reader, func(), error) {
	candidate := filepath.Clean(strings.TrimSpace(path))

	file, err := os.Open(candidate) // #nosec G304 -- path is operator controlled.
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
