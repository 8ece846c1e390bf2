package reducer

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Config holds the knobs reducer.Reduce needs: how long domcand iterates,
// what randomness and seed patterns it draws on, which solver to mint per
// SAT query, whether to pay for the fault-analysis phase, and how many
// global-reduction workers may run at once.
type Config struct {
	LoopLimit        int  `yaml:"loop_limit"`
	RunFaultAnalysis bool `yaml:"run_fault_analysis"`
	Parallel         int  `yaml:"parallel"`

	Seeds []*tvec.TestVector `yaml:"-"`
	Rand  func() bool        `yaml:"-"`

	NewSolver func() satsolver.Solver `yaml:"-"`
	Logger    *zerolog.Logger         `yaml:"-"`
}

// Option mutates a Config before Reduce runs.
type Option func(cfg *Config)

// defaultConfig mirrors the original c++ defaults: a handful of idle
// rounds before domcand gives up pruning further, no fault analysis
// (trivial reduction is skipped unless a caller opts in), and serial
// global reduction.
func defaultConfig() *Config {
	src := rand.New(rand.NewSource(1))

	return &Config{
		LoopLimit:        4,
		RunFaultAnalysis: false,
		Parallel:         1,
		Rand:             func() bool { return src.Intn(2) == 1 },
		NewSolver:        func() satsolver.Solver { return satsolver.NewCDCL() },
	}
}

// newConfig applies opts over defaultConfig in order.
func newConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithLoopLimit overrides domcand's idle-round termination threshold.
func WithLoopLimit(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.LoopLimit = n
		}
	}
}

// WithFaultAnalysis enables the optional fault-analysis/trivial-reduction
// phases.
func WithFaultAnalysis(enabled bool) Option {
	return func(cfg *Config) { cfg.RunFaultAnalysis = enabled }
}

// WithParallel sets how many global-reduction FFR pairs may be checked
// concurrently. Values below 1 are ignored.
func WithParallel(n int) Option {
	return func(cfg *Config) {
		if n >= 1 {
			cfg.Parallel = n
		}
	}
}

// WithSeeds supplies existing test vectors for domcand to draw patterns
// from before falling back to fully random fill.
func WithSeeds(seeds []*tvec.TestVector) Option {
	return func(cfg *Config) { cfg.Seeds = seeds }
}

// WithRand overrides the random-bit source used to fill X bits. If nil
// this option is a no-op.
func WithRand(rng func() bool) Option {
	return func(cfg *Config) {
		if rng != nil {
			cfg.Rand = rng
		}
	}
}

// WithNewSolver overrides the SAT solver constructor used for every
// dominance query. If nil this option is a no-op.
func WithNewSolver(newSolver func() satsolver.Solver) Option {
	return func(cfg *Config) {
		if newSolver != nil {
			cfg.NewSolver = newSolver
		}
	}
}

// WithLogger attaches a debug logger reporting per-phase kill counts.
// nil disables logging, matching zerolog's own nop-logger convention.
func WithLogger(logger *zerolog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// Stats counts how many faults each phase deleted, plus the final
// survivor count.
type Stats struct {
	Initial        int
	FFRReduced     int
	TrivialReduced int
	GlobalReduced  int
	Survivors      int
}
