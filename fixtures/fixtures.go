package fixtures

import "github.com/yusuke-matsunaga/druid-sub002/netlist"

// XorTree returns a, b, c, d as PPIs feeding g1 = AND(a,b), g2 = AND(c,d),
// po = XOR(g1,g2). Every node has a single fanout, so the whole tree is
// one FFR rooted at the PPO — useful for exercising Boolean-difference
// propagation through a non-monotone gate.
func XorTree() (nl *netlist.Netlist, a, b, c, d, g1, g2, po int) {
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	c = bld.AddPPI()
	d = bld.AddPPI()
	g1 = bld.AddLogic(netlist.And, a, b)
	g2 = bld.AddLogic(netlist.And, c, d)
	xor := bld.AddLogic(netlist.Xor, g1, g2)
	po = bld.AddPPO(xor)
	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return
}

// ReconvergentOr returns a, b as PPIs feeding g1 = AND(a,b), g2 = NOT(a),
// po1 = OR(g1, g2) — g1 and g2 reconverge on a shared input a, exercising
// BoolDiffEnc's "reconverged fanin outside the cone" boundary handling.
func ReconvergentOr() (nl *netlist.Netlist, a, b, g1, g2, po int) {
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	g1 = bld.AddLogic(netlist.And, a, b)
	g2 = bld.AddLogic(netlist.Not, a)
	or := bld.AddLogic(netlist.Or, g1, g2)
	po = bld.AddPPO(or)
	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return
}

// TwoOutputMFFC returns a, b, c as PPIs feeding g1 = AND(a,b), g2 =
// OR(g1,c), with two primary outputs po1 (observing g1 directly, forcing
// g1 to fan out and become its own FFR root) and po2 (observing g2). g1
// and g2 sit in separate FFRs; g1's FFR feeds both po1's FFR and the FFR
// holding g2 and po2, so no single FFR post-dominates it and g1 and g2
// land in separate MFFCs.
func TwoOutputMFFC() (nl *netlist.Netlist, a, b, c, g1, g2, po1, po2 int) {
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	c = bld.AddPPI()
	g1 = bld.AddLogic(netlist.And, a, b)
	g2 = bld.AddLogic(netlist.Or, g1, c)
	po1 = bld.AddPPO(g1)
	po2 = bld.AddPPO(g2)
	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return
}

// NestedMFFC returns a, b, c, d as PPIs feeding:
//
//	g0 = AND(a,b)                 fanout 2: {m1, m2}
//	m1 = OR(g0,c)                 fanout 2: {u1, u2}
//	u1 = AND(m1,d)                fanout 1: {r}
//	u2 = NOT(m1)                  fanout 1: {r}
//	m2 = NOT(g0)                   fanout 1: {w}
//	w  = Buff(m2)                  fanout 1: {r}
//	r  = OR(u1,u2,w)               fanout 1: {po}
//	po observes r
//
// g0's two fanouts (m1, m2) land in two distinct one-hop FFRs (m1 is its
// own FFR root since it fans out twice; m2's chain absorbs into r/po's
// FFR) that only reconverge one level further down, at r/po's FFR — g0
// is genuinely dominated by that FFR, not by either branch alone. A
// one-hop "does g0 have exactly one immediate successor FFR" check wrongly
// makes g0 its own singleton MFFC; true post-dominance places it in the
// same MFFC as r. Exercises MFFCEnc/BoolDiffEnc chaining and the FFR-DAG
// post-dominator computation in netlist.MFFC.
func NestedMFFC() (nl *netlist.Netlist, a, b, c, d, g0, m1, po int) {
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	c = bld.AddPPI()
	d = bld.AddPPI()
	g0 = bld.AddLogic(netlist.And, a, b)
	m1 = bld.AddLogic(netlist.Or, g0, c)
	u1 := bld.AddLogic(netlist.And, m1, d)
	u2 := bld.AddLogic(netlist.Not, m1)
	m2 := bld.AddLogic(netlist.Not, g0)
	w := bld.AddLogic(netlist.Buff, m2)
	r := bld.AddLogic(netlist.Or, u1, u2, w)
	po = bld.AddPPO(r)
	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return
}

// ScanLatch returns a tiny one-flop scan fragment: PPI in feeds
// g = AND(in, dffOut), a DFFIn samples g, and po observes g directly —
// enough to exercise structenc's two-frame DFFOut/DFFIn linkage and
// transition-delay fault excitation.
func ScanLatch() (nl *netlist.Netlist, in, g, dffIn, dffOut, po int) {
	bld := netlist.NewBuilder()
	in = bld.AddPPI()
	dffOut = bld.AddDFFOut()
	g = bld.AddLogic(netlist.And, in, dffOut)
	dffIn = bld.AddDFFIn(g, dffOut)
	po = bld.AddPPO(g)
	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return
}

// S27Like returns a small scan fragment shaped like ISCAS-89 s27's
// combinational core: four PPIs, one scan DFF feeding back into the
// logic, and two primary outputs. Not bit-identical to s27.blif (that
// parser is out of scope), just topologically similar enough to exercise
// FFR/MFFC/DFF handling together with multi-output propagation.
func S27Like() (nl *netlist.Netlist) {
	bld := netlist.NewBuilder()
	i0 := bld.AddPPI()
	i1 := bld.AddPPI()
	i2 := bld.AddPPI()
	i3 := bld.AddPPI()
	dffOut := bld.AddDFFOut()

	n1 := bld.AddLogic(netlist.Nand, i0, dffOut)
	n2 := bld.AddLogic(netlist.Nand, i1, n1)
	n3 := bld.AddLogic(netlist.Nand, i2, i3)
	n4 := bld.AddLogic(netlist.Or, n2, n3)
	n5 := bld.AddLogic(netlist.Not, n4)

	bld.AddPPO(n4)
	bld.AddPPO(n5)
	bld.AddDFFIn(n2, dffOut)

	var err error
	nl, err = bld.Build()
	if err != nil {
		panic(err)
	}

	return nl
}
