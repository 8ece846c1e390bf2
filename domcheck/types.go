package domcheck

import (
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
)

// Checker reports whether f structurally dominates f': every pattern
// detecting f also detects f' (spec §4.10, §4.11 point 7). Only
// FFRChecker satisfies this directly — TrivialChecker and CrossFFRChecker
// need extra per-call context (mandatory conditions, a second FFR root)
// that a same-FFR, fault-ID-only signature can't express, so they expose
// their own Dominates/Check methods instead.
type Checker interface {
	Dominates(f, fprime int) (bool, error)
}

func addNode(se *structenc.StructEngine, a assign.Assignment) {
	if a.Time == 0 {
		se.AddPrevNode(a.Node)
	} else {
		se.AddCurNode(a.Node)
	}
}

// negatedOr allocates a fresh literal equal to the OR of the negation of
// every literal in lits — the CNF idiom used throughout this package to
// turn "¬(conjunction)" into a single assumption literal.
func negatedOr(se *structenc.StructEngine, lits []satsolver.Lit) satsolver.Lit {
	neg := make([]satsolver.Lit, len(lits))
	for i, l := range lits {
		neg[i] = l.Not()
	}
	out := satsolver.MkLit(se.Solver().NewVar(), false)
	satsolver.AddOrGate(se.Solver(), out, neg...)

	return out
}
