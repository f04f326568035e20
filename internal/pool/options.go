package pool

import (
	"github.com/coachpo/framepool/internal/observability"
	"github.com/coachpo/framepool/internal/telemetry"
)

// DefaultLeakThreshold is the outstanding-instance count above which a pool
// reports a probable leak.
const DefaultLeakThreshold = 1000

type settings struct {
	key           string
	registryID    string
	leakThreshold int
	thresholds    map[string]int
	logger        observability.Logger
	instruments   *telemetry.PoolInstruments
}

func defaultSettings() settings {
	return settings{
		leakThreshold: DefaultLeakThreshold,
		logger:        observability.Log(),
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = observability.Nop()
	}
	return s
}

// Option configures a pool or a registry.
type Option func(*settings)

// WithLeakThreshold overrides the leak warning threshold. Values <= 0 disable
// leak warnings.
func WithLeakThreshold(n int) Option {
	return func(s *settings) {
		s.leakThreshold = n
	}
}

// WithLeakThresholds sets per-pool thresholds by pool name. Only registries
// consult this option.
func WithLeakThresholds(byName map[string]int) Option {
	return func(s *settings) {
		if len(byName) == 0 {
			s.thresholds = nil
			return
		}
		s.thresholds = make(map[string]int, len(byName))
		for name, n := range byName {
			s.thresholds[name] = n
		}
	}
}

// WithLogger routes pool diagnostics to logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithInstruments records pool activity on the given instruments.
func WithInstruments(inst *telemetry.PoolInstruments) Option {
	return func(s *settings) {
		s.instruments = inst
	}
}

// WithKey labels a free list within a partitioned pool.
func WithKey(key string) Option {
	return func(s *settings) {
		s.key = key
	}
}

// WithRegistryID tags metrics and logs with the owning registry.
func WithRegistryID(id string) Option {
	return func(s *settings) {
		s.registryID = id
	}
}

func withSettings(src settings) Option {
	return func(s *settings) {
		*s = src
	}
}
