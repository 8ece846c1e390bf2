package subenc

import (
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
)

// FFREnc publishes one propagation-to-FFR-root literal per fault in
// faults: PropVar[faultID] is true in a model iff every literal in that
// fault's FFRPropagateCondition holds, i.e. the fault is excited and its
// effect is guaranteed to reach its FFR root.
//
// This is deliberately lighter-weight than BoolDiffEnc: the condition is
// already a ground cube over existing circuit signals (no fresh fvar/dvar
// chain is needed), so FFREnc only needs an AND gate per fault.
type FFREnc struct {
	faults []netlist.Fault

	PropVar map[int]satsolver.Lit // fault ID -> literal
	built   bool
}

// NewFFREnc returns an encoder publishing a propagation literal for each
// of faults.
func NewFFREnc(faults []netlist.Fault) *FFREnc {
	return &FFREnc{faults: faults}
}

// Init requests gvar/hvar for every node referenced by any fault's
// FFRPropagateCondition and allocates one literal per fault.
func (e *FFREnc) Init(se *structenc.StructEngine) {
	e.PropVar = make(map[int]satsolver.Lit, len(e.faults))
	for _, f := range e.faults {
		for _, a := range f.FFRPropagateCondition {
			addNode(se, a)
		}
		e.PropVar[f.ID] = satsolver.MkLit(se.Solver().NewVar(), false)
	}
}

// MakeCNF builds each fault's AND gate once its condition's literals
// resolve.
func (e *FFREnc) MakeCNF(se *structenc.StructEngine) {
	if e.built {
		return
	}
	e.built = true

	for _, f := range e.faults {
		pv := e.PropVar[f.ID]
		if f.PropagateConflict {
			// The cube needed opposing values on one net: the fault can
			// never reach its FFR root, so its propagation literal is
			// constant false.
			satsolver.AddConstGate(se.Solver(), pv, false)

			continue
		}
		lits, err := se.ConvAssignList(f.FFRPropagateCondition)
		if err != nil {
			panic(err)
		}
		if len(lits) == 0 {
			satsolver.AddConstGate(se.Solver(), pv, true)

			continue
		}
		satsolver.AddAndGate(se.Solver(), pv, lits...)
	}
}
