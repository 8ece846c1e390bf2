package subenc

import (
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
)

// emitGateCNF mirrors structenc's own private dispatcher: it is
// duplicated here (rather than exported from structenc) because a
// sub-encoder's fvar chain needs the exact same per-gate Tseitin CNF as
// the gvar chain, but against a different literal array.
func emitGateCNF(s satsolver.Solver, gate netlist.GateType, out satsolver.Lit, ins []satsolver.Lit) {
	switch gate {
	case netlist.Buff:
		satsolver.AddBuffGate(s, out, ins[0])
	case netlist.Not:
		satsolver.AddNotGate(s, out, ins[0])
	case netlist.And:
		satsolver.AddAndGate(s, out, ins...)
	case netlist.Nand:
		satsolver.AddNandGate(s, out, ins...)
	case netlist.Or:
		satsolver.AddOrGate(s, out, ins...)
	case netlist.Nor:
		satsolver.AddNorGate(s, out, ins...)
	case netlist.Xor:
		satsolver.AddXorGate(s, out, ins...)
	case netlist.Xnor:
		satsolver.AddXnorGate(s, out, ins...)
	case netlist.C0:
		satsolver.AddConstGate(s, out, false)
	case netlist.C1:
		satsolver.AddConstGate(s, out, true)
	}
}
