package satsolver

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Var is a propositional variable id, dense from 0.
type Var int32

// Lit is a literal: a variable together with a polarity, packed as
// 2*var + (1 if negated). LitUndef is never a valid literal value.
type Lit int32

// LitUndef marks "no literal" in contexts (e.g. analysis bookkeeping) that
// need a sentinel distinct from every real Lit.
const LitUndef Lit = -1

// MkLit builds the literal for v with the given polarity (neg == true for
// the negated literal).
func MkLit(v Var, neg bool) Lit {
	if neg {
		return Lit(2*int32(v) + 1)
	}

	return Lit(2 * int32(v))
}

// Var returns the variable underlying l.
func (l Lit) Var() Var { return Var(int32(l) / 2) }

// Sign reports whether l is the negated literal of its variable.
func (l Lit) Sign() bool { return int32(l)%2 == 1 }

// Not returns the complementary literal.
func (l Lit) Not() Lit { return l ^ 1 }

// String renders l as "v3" or "-v3" for debug/log output.
func (l Lit) String() string {
	if l.Sign() {
		return fmt.Sprintf("-v%d", l.Var())
	}

	return fmt.Sprintf("v%d", l.Var())
}

// Clause is a disjunction of literals.
type Clause []Lit

// Value3 is a 3-valued truth assignment returned by Solver.Value.
type Value3 uint8

const (
	Undef Value3 = iota
	True
	False
)

// Result is the outcome of a Solve call.
type Result uint8

const (
	Unsat Result = iota
	Sat
	// Unknown is returned if a resource bound (not currently exposed, but
	// kept for API parity with spec §6's DtpgStats abort accounting) is
	// hit before a verdict is reached.
	Unknown
)

// String renders a Result for log/report output.
func (r Result) String() string {
	switch r {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Stats reports CDCL's internal counters, aggregated by dtpg.Stats.
type Stats struct {
	Decisions    int64
	Propagations int64
	Conflicts    int64
	Restarts     int64
}

// Solver is the propositional SAT capability every other component in
// this module programs against; CDCL is the only implementation shipped,
// but callers should depend on this interface, not on *CDCL directly.
type Solver interface {
	// NewVar allocates and returns a fresh variable.
	NewVar() Var

	// AddClause adds a clause to the solver's clause database. Returns
	// false if the clause database is now trivially unsatisfiable (an
	// empty clause was added, or unit propagation over existing unit
	// clauses already contradicts it at the root level).
	AddClause(lits ...Lit) bool

	// Solve runs the solver under the given assumption literals (all
	// temporarily forced true) and returns the verdict.
	Solve(assumptions ...Lit) (Result, error)

	// Value returns the last-computed assignment of v (only meaningful
	// after Solve returns Sat).
	Value(v Var) Value3

	// Stats returns a snapshot of the solver's internal counters.
	Stats() Stats
}

// Debuggable is implemented by Solver implementations that accept an
// optional debug logger (spec §6's sat_param "log sink" key). CDCL
// implements it; callers should type-assert rather than assume every
// Solver does.
type Debuggable interface {
	SetLogger(logger *zerolog.Logger)
}
