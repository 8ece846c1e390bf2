package satsolver

// AddBuffGate encodes out <-> in as two binary clauses.
func AddBuffGate(s Solver, out, in Lit) {
	s.AddClause(out.Not(), in)
	s.AddClause(out, in.Not())
}

// AddNotGate encodes out <-> !in.
func AddNotGate(s Solver, out, in Lit) {
	AddBuffGate(s, out, in.Not())
}

// AddAndGate encodes out <-> AND(ins...) via the standard Tseitin
// transformation: one (n+1)-literal clause plus n binary clauses.
func AddAndGate(s Solver, out Lit, ins ...Lit) {
	cl := make(Clause, 0, len(ins)+1)
	cl = append(cl, out)
	for _, in := range ins {
		cl = append(cl, in.Not())
		s.AddClause(out.Not(), in)
	}
	s.AddClause(cl...)
}

// AddOrGate encodes out <-> OR(ins...).
func AddOrGate(s Solver, out Lit, ins ...Lit) {
	cl := make(Clause, 0, len(ins)+1)
	cl = append(cl, out.Not())
	for _, in := range ins {
		cl = append(cl, in)
		s.AddClause(out, in.Not())
	}
	s.AddClause(cl...)
}

// AddNandGate encodes out <-> NAND(ins...).
func AddNandGate(s Solver, out Lit, ins ...Lit) {
	AddAndGate(s, out.Not(), ins...)
}

// AddNorGate encodes out <-> NOR(ins...).
func AddNorGate(s Solver, out Lit, ins ...Lit) {
	AddOrGate(s, out.Not(), ins...)
}

// AddXorGate encodes out <-> XOR(ins...): the two-input case is the
// standard 4-clause form, wider gates chain through fresh intermediate
// variables.
func AddXorGate(s Solver, out Lit, ins ...Lit) {
	switch len(ins) {
	case 0:
		AddConstGate(s, out, false)
	case 1:
		AddBuffGate(s, out, ins[0])
	default:
		acc := ins[0]
		for _, in := range ins[1 : len(ins)-1] {
			next := MkLit(s.NewVar(), false)
			addXor2(s, next, acc, in)
			acc = next
		}
		addXor2(s, out, acc, ins[len(ins)-1])
	}
}

func addXor2(s Solver, out, a, b Lit) {
	s.AddClause(out.Not(), a.Not(), b.Not())
	s.AddClause(out.Not(), a, b)
	s.AddClause(out, a.Not(), b)
	s.AddClause(out, a, b.Not())
}

// AddXnorGate encodes out <-> XNOR(ins...).
func AddXnorGate(s Solver, out Lit, ins ...Lit) {
	AddXorGate(s, out.Not(), ins...)
}

// AddConstGate forces lit to the given constant truth value.
func AddConstGate(s Solver, lit Lit, value bool) {
	if value {
		s.AddClause(lit)
	} else {
		s.AddClause(lit.Not())
	}
}
