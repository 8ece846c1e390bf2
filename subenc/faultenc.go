package subenc

import (
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
)

// FaultEnc publishes a single literal, ExciteVar, equal to the AND of a
// fault's (already ground) ExcitationCondition — the fault effect is
// visible at its node's output in a model iff ExciteVar is true.
type FaultEnc struct {
	fault netlist.Fault

	ExciteVar satsolver.Lit
	built     bool
}

// NewFaultEnc returns an encoder for f.
func NewFaultEnc(f netlist.Fault) *FaultEnc {
	return &FaultEnc{fault: f}
}

// Init requests gvar/hvar for every node f.ExcitationCondition refers to
// and allocates ExciteVar.
func (e *FaultEnc) Init(se *structenc.StructEngine) {
	for _, a := range e.fault.ExcitationCondition {
		addNode(se, a)
	}
	e.ExciteVar = satsolver.MkLit(se.Solver().NewVar(), false)
}

// MakeCNF builds the AND gate once the condition's literals resolve.
func (e *FaultEnc) MakeCNF(se *structenc.StructEngine) {
	if e.built {
		return
	}
	e.built = true

	if e.fault.ExcitationConflict {
		satsolver.AddConstGate(se.Solver(), e.ExciteVar, false)

		return
	}

	lits, err := se.ConvAssignList(e.fault.ExcitationCondition)
	if err != nil {
		panic(err) // Init registered every referenced node.
	}
	if len(lits) == 0 {
		satsolver.AddConstGate(se.Solver(), e.ExciteVar, true)

		return
	}
	satsolver.AddAndGate(se.Solver(), e.ExciteVar, lits...)
}

func addNode(se *structenc.StructEngine, a assign.Assignment) {
	if a.Time == 0 {
		se.AddPrevNode(a.Node)
	} else {
		se.AddCurNode(a.Node)
	}
}
