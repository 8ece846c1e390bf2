package faultanalyzer

import (
	"github.com/rs/zerolog"
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/subenc"
)

// Analyzer computes sufficient/mandatory conditions one FFR at a time,
// each call building a fresh StructEngine+BoolDiffEnc+FFREnc over newSolver
// so callers (reducer's multi_thread workers) can run several FFRs
// concurrently without sharing solver state.
type Analyzer struct {
	nl        *netlist.Netlist
	newSolver func() satsolver.Solver
}

// New returns an Analyzer over nl, using newSolver to mint one SAT solver
// instance per AnalyzeFFR call.
func New(nl *netlist.Netlist, newSolver func() satsolver.Solver) *Analyzer {
	return &Analyzer{nl: nl, newSolver: newSolver}
}

// AnalyzeFFR computes Conditions for every fault in faultIDs (which must
// all lie in the FFR at ffrIdx), per spec §4.8's two-step root/per-fault
// minimisation. A fault absent from the result is one for which the FFR
// root cannot be shown to propagate at all under these assumptions (it is
// left for other phases to resolve, not reported here as untestable).
func (a *Analyzer) AnalyzeFFR(ffrIdx int, faultIDs []int) (map[int]Conditions, error) {
	out := make(map[int]Conditions, len(faultIDs))
	if len(faultIDs) == 0 {
		return out, nil
	}

	nl := a.nl
	ffr := nl.FFRs()[ffrIdx]
	sequential := anyTransition(nl, faultIDs)

	solver := a.newSolver()
	se := structenc.New(nl, solver, sequential)

	bde := subenc.NewBoolDiffEnc(ffr.Root, nil)
	se.AddSubEnc(bde)

	faults := make([]netlist.Fault, len(faultIDs))
	for i, id := range faultIDs {
		faults[i] = nl.Fault(id)
	}
	fe := subenc.NewFFREnc(faults)
	se.AddSubEnc(fe)

	se.Update()

	res, err := se.Solve(bde.PropVar())
	if err != nil {
		return nil, err
	}
	if res != satsolver.Sat {
		return out, nil
	}

	rootSuf, err := bde.ExtractSufficientCondition(se)
	if err != nil {
		return nil, err
	}
	rootMandatory, err := minimizeAgainst(se, rootSuf, []satsolver.Lit{bde.PropVar()})
	if err != nil {
		return nil, err
	}

	for _, id := range faultIDs {
		f := nl.Fault(id)
		if f.PropagateConflict {
			continue // can never reach the FFR root, nothing to analyze
		}
		base, err := assumptionsFor(se, f.FFRPropagateCondition, bde.PropVar(), rootMandatory)
		if err != nil {
			return nil, err
		}
		res, err := se.Solve(base...)
		if err != nil {
			return nil, err
		}
		if res != satsolver.Sat {
			continue
		}

		suf, err := bde.ExtractSufficientCondition(se)
		if err != nil {
			return nil, err
		}
		suf, err = suf.Merge(rootMandatory)
		if err != nil {
			return nil, err
		}

		extra := suf.Diff(rootMandatory)
		extraMandatory, err := minimizeAgainst(se, extra, base)
		if err != nil {
			return nil, err
		}
		mandatory, err := rootMandatory.Merge(extraMandatory)
		if err != nil {
			return nil, err
		}

		out[id] = Conditions{Sufficient: suf, Mandatory: mandatory}
	}

	return out, nil
}

// minimizeAgainst re-solves base+{¬l} for every assignment l in candidates,
// returning the subset for which that query is UNSAT — i.e. l is
// necessary for base to hold at all.
func minimizeAgainst(se *structenc.StructEngine, candidates assign.AssignList, base []satsolver.Lit) (assign.AssignList, error) {
	var mandatory []assign.Assignment
	for _, a := range candidates {
		lit, err := se.ConvToLiteral(a)
		if err != nil {
			return nil, err
		}
		assumptions := append(append([]satsolver.Lit(nil), base...), lit.Not())
		res, err := se.Solve(assumptions...)
		if err != nil {
			return nil, err
		}
		if res == satsolver.Unsat {
			mandatory = append(mandatory, a)
		}
	}

	return assign.New(mandatory...)
}

func assumptionsFor(se *structenc.StructEngine, cond assign.AssignList, propVar satsolver.Lit, extra assign.AssignList) ([]satsolver.Lit, error) {
	condLits, err := se.ConvAssignList(cond)
	if err != nil {
		return nil, err
	}
	extraLits, err := se.ConvAssignList(extra)
	if err != nil {
		return nil, err
	}

	out := make([]satsolver.Lit, 0, 1+len(condLits)+len(extraLits))
	out = append(out, propVar)
	out = append(out, condLits...)
	out = append(out, extraLits...)

	return out, nil
}

func anyTransition(nl *netlist.Netlist, ids []int) bool {
	for _, id := range ids {
		if nl.Fault(id).Kind.IsTransition() {
			return true
		}
	}

	return false
}

// Classifier wraps an Analyzer with optional debug logging, unifying the
// two near-identical "Classifier" variants noted in spec §9 (one with
// verbose toggling, one without) behind a single type taking a logger
// instead of a package-global flag.
type Classifier struct {
	analyzer *Analyzer
	logger   *zerolog.Logger
}

// NewClassifier returns a Classifier over nl. logger may be nil to
// disable debug output entirely.
func NewClassifier(nl *netlist.Netlist, newSolver func() satsolver.Solver, logger *zerolog.Logger) *Classifier {
	return &Classifier{analyzer: New(nl, newSolver), logger: logger}
}

// ClassifyFFR computes Conditions for faultIDs (as Analyzer.AnalyzeFFR)
// and, if a logger was supplied, emits one debug line per classified
// fault recording its trivial/non-trivial verdict.
func (c *Classifier) ClassifyFFR(ffrIdx int, faultIDs []int) (map[int]Conditions, error) {
	conds, err := c.analyzer.AnalyzeFFR(ffrIdx, faultIDs)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		for id, cond := range conds {
			c.logger.Debug().
				Int("fault", id).
				Int("ffr", ffrIdx).
				Bool("trivial", cond.IsTrivial()).
				Msg("fault classified")
		}
	}

	return conds, nil
}
