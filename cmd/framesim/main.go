// Command framesim runs the frame-loop simulator and prints pool stats as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coachpo/framepool/internal/config"
	"github.com/coachpo/framepool/internal/framesim"
	"github.com/coachpo/framepool/internal/observability"
	"github.com/coachpo/framepool/internal/pool"
	"github.com/coachpo/framepool/internal/telemetry"
)

const (
	defaultConfigPath        = "config/framepool.yaml"
	meterName                = "github.com/coachpo/framepool/pool"
	telemetryShutdownTimeout = 5 * time.Second
)

func main() {
	cfgPathFlag := parseFlags()
	ctx, cancel := newSignalContext()
	defer cancel()

	if err := run(ctx, resolveConfigPath(cfgPathFlag), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "framesim: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() string {
	cfgPath := flag.String("config", "", fmt.Sprintf("Path to configuration file (default: %s)", defaultConfigPath))
	flag.Parse()
	return *cfgPath
}

func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Clean(defaultConfigPath)
}

func run(ctx context.Context, configPath string, out, logOut io.Writer) error {
	appCfg, loadedFromFile, err := config.LoadOrDefault(ctx, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewZerologLogger(logOut, appCfg.Logging.Level, appCfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	observability.SetLogger(logger)
	if !loadedFromFile {
		logger.Info("configuration file not found, using defaults", observability.F("path", configPath))
	}

	provider, err := initTelemetry(ctx, logger, appCfg)
	if err != nil {
		return err
	}

	instruments := telemetry.NewPoolInstruments(provider.Meter(meterName))
	newRegistry := registryFactory(appCfg.Pools, logger, instruments)

	logger.Info("simulation starting",
		observability.F("env", string(appCfg.Environment)),
		observability.F("worlds", appCfg.Sim.Worlds),
		observability.F("frames", appCfg.Sim.Frames),
		observability.F("fps", appCfg.Sim.FPS),
	)
	reports, runErr := framesim.Run(ctx, appCfg.Sim, newRegistry)
	for _, report := range reports {
		logWorldStats(logger, report)
		if report.Leaked {
			logger.Warn("world finished with unreturned pool instances",
				observability.F("world", report.World),
				observability.F("registry", report.RegistryID),
				observability.F("outstanding", report.Outstanding),
			)
		}
	}
	var writeErr error
	if err := pool.WriteJSON(out, reports); err != nil {
		writeErr = fmt.Errorf("write reports: %w", err)
	}
	return observability.AggregateErrors(logger, "framesim", []error{
		runErr,
		writeErr,
		shutdownTelemetry(ctx, provider),
	})
}

func logWorldStats(logger observability.Logger, report framesim.Report) {
	stats, err := pool.EncodeStats(report.Stats)
	if err != nil {
		logger.Error("encode pool stats", observability.F("world", report.World), observability.F("error", err))
		return
	}
	logger.Debug("world pool stats",
		observability.F("world", report.World),
		observability.F("frames", report.Frames),
		observability.F("stats", string(stats)),
	)
}

func registryFactory(cfg config.PoolsConfig, logger observability.Logger, instruments *telemetry.PoolInstruments) framesim.RegistryFactory {
	thresholds := cfg.Thresholds()
	return func(int) *pool.Registry {
		return pool.NewRegistry(
			pool.WithLogger(logger),
			pool.WithInstruments(instruments),
			pool.WithLeakThreshold(cfg.LeakThreshold),
			pool.WithLeakThresholds(thresholds),
		)
	}
}

func initTelemetry(ctx context.Context, logger observability.Logger, appCfg config.AppConfig) (*telemetry.Provider, error) {
	telemetryCfg := appCfg.TelemetryConfig()
	provider, err := telemetry.NewProvider(ctx, telemetryCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry provider: %w", err)
	}
	if telemetryCfg.Enabled {
		logger.Info("telemetry initialized",
			observability.F("endpoint", telemetryCfg.OTLPEndpoint),
			observability.F("service", telemetryCfg.ServiceName),
		)
	} else {
		logger.Debug("telemetry disabled")
	}
	return provider, nil
}

func shutdownTelemetry(ctx context.Context, provider *telemetry.Provider) error {
	stepCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
	defer cancel()
	return provider.Shutdown(stepCtx)
}
