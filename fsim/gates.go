package fsim

import "github.com/yusuke-matsunaga/druid-sub002/netlist"

// evalGate computes a gate's packed output from its packed inputs, using
// the standard bit-parallel 3-valued formulas: a value bit is set in the
// output only when it is forced regardless of how any X input resolves.
// AND/OR/XOR fold left-to-right over an arbitrary number of inputs;
// Buff/Not/C0/C1 are fixed-arity.
func evalGate(g netlist.GateType, ins []PackedVal) PackedVal {
	switch g {
	case netlist.C0:
		return allZero
	case netlist.C1:
		return allOne
	case netlist.Buff:
		return ins[0]
	case netlist.Not:
		return notOf(ins[0])
	case netlist.And, netlist.Nand:
		acc := ins[0]
		for _, v := range ins[1:] {
			acc = andOf(acc, v)
		}
		if g == netlist.Nand {
			acc = notOf(acc)
		}

		return acc
	case netlist.Or, netlist.Nor:
		acc := ins[0]
		for _, v := range ins[1:] {
			acc = orOf(acc, v)
		}
		if g == netlist.Nor {
			acc = notOf(acc)
		}

		return acc
	case netlist.Xor, netlist.Xnor:
		acc := ins[0]
		for _, v := range ins[1:] {
			acc = xorOf(acc, v)
		}
		if g == netlist.Xnor {
			acc = notOf(acc)
		}

		return acc
	default:
		return allX
	}
}

func notOf(a PackedVal) PackedVal {
	return PackedVal{V0: a.V1, V1: a.V0}
}

// andOf: output is 0 wherever either input is 0 (even if the other is X),
// output is 1 only where both inputs are 1, X otherwise.
func andOf(a, b PackedVal) PackedVal {
	return PackedVal{
		V0: a.V0 | b.V0,
		V1: a.V1 & b.V1,
	}
}

func orOf(a, b PackedVal) PackedVal {
	return PackedVal{
		V0: a.V0 & b.V0,
		V1: a.V1 | b.V1,
	}
}

// xorOf is defined (non-X) only where both inputs are defined.
func xorOf(a, b PackedVal) PackedVal {
	return PackedVal{
		V0: (a.V1 & b.V1) | (a.V0 & b.V0),
		V1: (a.V1 & b.V0) | (a.V0 & b.V1),
	}
}
