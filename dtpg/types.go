package dtpg

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"github.com/yusuke-matsunaga/druid-sub002/justify"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// GroupMode selects the unit of StructEngine construction: one node, one
// FFR, or one MFFC per build (spec §4.7).
type GroupMode string

const (
	GroupNode GroupMode = "node"
	GroupFFR  GroupMode = "ffr"
	GroupMFFC GroupMode = "mffc"
)

// DriverType selects whether a region's StructEngine is shared across
// every fault it contains (Engine, the incremental-reuse path spec §4.7
// calls out) or rebuilt fresh per fault (Enc, the simpler one-shot path).
type DriverType string

const (
	DriverEngine DriverType = "engine"
	DriverEnc    DriverType = "enc"
)

// ErrUnknownGroupMode is returned when Config.GroupMode holds a value
// none of the three recognised modes.
var ErrUnknownGroupMode = errors.New("dtpg: unknown group mode")

// ErrUnknownJustifier is returned when Config.Justifier holds a value
// none of the three recognised justifiers.
var ErrUnknownJustifier = errors.New("dtpg: unknown justifier")

// ErrUnknownDriverType is returned when Config.DriverType holds a value
// neither DriverEngine nor DriverEnc.
var ErrUnknownDriverType = errors.New("dtpg: unknown driver type")

// Config holds the DTPG driver's enumerated options (spec §4.7): group
// mode, driver type, justifier choice, per-fault cube budget, and
// multi-threading.
type Config struct {
	GroupMode    GroupMode  `yaml:"group_mode"`
	DriverType   DriverType `yaml:"driver_type"`
	Justifier    string     `yaml:"justifier"`
	CubePerFault int        `yaml:"cube_per_fault"`
	MultiThread  bool       `yaml:"multi_thread"`
	Workers      int        `yaml:"workers"`

	NewSolver func() satsolver.Solver `yaml:"-"`
	Logger    *zerolog.Logger         `yaml:"-"`
}

// Option mutates a Config; NewConfig and LoadConfig apply options in order.
type Option func(cfg *Config)

func defaultConfig() *Config {
	return &Config{
		GroupMode:    GroupFFR,
		DriverType:   DriverEngine,
		Justifier:    "just1",
		CubePerFault: 1,
		Workers:      1,
		NewSolver:    func() satsolver.Solver { return satsolver.NewCDCL() },
	}
}

// NewConfig builds a Config starting from its defaults (GroupFFR,
// DriverEngine, "just1", CubePerFault 1, a fresh CDCL per region) and
// applies opts in order.
func NewConfig(opts ...Option) *Config {
	return newConfig(opts...)
}

// LoadConfig parses a YAML rendering of the enumerated option keys
// (group_mode, driver_type, justifier, cube_per_fault, multi_thread,
// workers) over the defaults, then applies opts on top — the spec §6
// "JSON-like object" a host CLI reads from its config file. Keys absent
// from data keep their defaults; the non-serialisable fields (solver
// constructor, logger) are only reachable through opts.
func LoadConfig(data []byte, opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("dtpg: parsing config: %w", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg, nil
}

// Dump renders cfg's serialisable keys as YAML, the inverse of
// LoadConfig.
func (cfg *Config) Dump() ([]byte, error) {
	return yaml.Marshal(cfg)
}

func newConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithGroupMode overrides the region-grouping strategy.
func WithGroupMode(mode GroupMode) Option {
	return func(cfg *Config) { cfg.GroupMode = mode }
}

// WithDriverType overrides the per-region StructEngine reuse strategy.
func WithDriverType(t DriverType) Option {
	return func(cfg *Config) { cfg.DriverType = t }
}

// WithJustifier selects "naive", "just1", or "just2".
func WithJustifier(name string) Option {
	return func(cfg *Config) { cfg.Justifier = name }
}

// WithCubePerFault caps how many sufficient-condition cubes are
// extracted per detected fault (spec §5 supplement, CondGen2-style
// multi-cube extraction). Values below 1 are ignored.
func WithCubePerFault(n int) Option {
	return func(cfg *Config) {
		if n >= 1 {
			cfg.CubePerFault = n
		}
	}
}

// WithMultiThread enables RunMultiThread's workerpool fan-out, using n
// workers (clamped to at least 1).
func WithMultiThread(n int) Option {
	return func(cfg *Config) {
		cfg.MultiThread = true
		if n >= 1 {
			cfg.Workers = n
		}
	}
}

// WithNewSolver overrides the SAT solver constructor used for every
// region's StructEngine. If nil this option is a no-op.
func WithNewSolver(newSolver func() satsolver.Solver) Option {
	return func(cfg *Config) {
		if newSolver != nil {
			cfg.NewSolver = newSolver
		}
	}
}

// WithLogger attaches a debug logger. nil disables debug logging
// entirely, matching zerolog's own nop-logger convention.
func WithLogger(logger *zerolog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// attachLogger wires logger into solver if solver supports it
// (satsolver.CDCL does); a no-op for any other Solver implementation or
// a nil logger.
func attachLogger(solver satsolver.Solver, logger *zerolog.Logger) {
	if logger == nil {
		return
	}
	if dbg, ok := solver.(satsolver.Debuggable); ok {
		dbg.SetLogger(logger)
	}
}

func newJustifier(name string) (structenc.Justifier, error) {
	switch name {
	case "naive", "":
		return justify.Naive{}, nil
	case "just1":
		return justify.Just1{}, nil
	case "just2":
		return justify.Just2{}, nil
	default:
		return nil, ErrUnknownJustifier
	}
}

// Status is a fault's DTPG-time classification (spec §4.11's
// FaultInfo.status, restricted to the outcomes a single Run call can
// produce — Deleted is reducer's bookkeeping, not dtpg's).
type Status uint8

const (
	Undetected Status = iota
	Detected
	Untestable
	Aborted
)

// Callbacks reports per-fault DTPG outcomes, mirroring spec §4.7's
// on_detect/on_untest/on_abort hooks.
type Callbacks struct {
	OnDetect func(faultID int, tv *tvec.TestVector)
	OnUntest func(faultID int)
	OnAbort  func(faultID int)
}

// Stats aggregates per-run counters, including the SAT solver's own
// counters (spec §6's DtpgStats).
type Stats struct {
	Detected   int
	Untestable int
	Aborted    int

	SatStats satsolver.Stats

	// MaxSatStats holds, per counter, the largest value any single
	// region's solver reached — the "max solver counters" half of spec
	// §6's DtpgStats, next to the aggregated SatStats.
	MaxSatStats satsolver.Stats

	Times Timings
}

// Timings reports the cumulative wall-clock cost of the three DTPG
// phases (spec §6's DtpgStats: CNF build / SAT solve / justify times).
type Timings struct {
	CNFBuild time.Duration
	SATSolve time.Duration
	Justify  time.Duration
}

func (t *Timings) add(other Timings) {
	t.CNFBuild += other.CNFBuild
	t.SATSolve += other.SATSolve
	t.Justify += other.Justify
}

// add folds other (one region's stats) into s in place.
func (s *Stats) add(other Stats) {
	s.Detected += other.Detected
	s.Untestable += other.Untestable
	s.Aborted += other.Aborted
	s.SatStats.Decisions += other.SatStats.Decisions
	s.SatStats.Propagations += other.SatStats.Propagations
	s.SatStats.Conflicts += other.SatStats.Conflicts
	s.SatStats.Restarts += other.SatStats.Restarts
	s.MaxSatStats = maxStats(s.MaxSatStats, other.SatStats)
	s.Times.add(other.Times)
}

func maxStats(a, b satsolver.Stats) satsolver.Stats {
	return satsolver.Stats{
		Decisions:    maxInt64(a.Decisions, b.Decisions),
		Propagations: maxInt64(a.Propagations, b.Propagations),
		Conflicts:    maxInt64(a.Conflicts, b.Conflicts),
		Restarts:     maxInt64(a.Restarts, b.Restarts),
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}
