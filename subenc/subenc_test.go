package subenc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/subenc"
)

// buildTree builds: g1 = AND(a,b); g2 = AND(c,d); po = OR(g1,g2).
// po is the single FFR root reachable from both g1 and g2; the whole
// thing is one MFFC (po's out-degree in the FFR-DAG is the PPO itself).
func buildTree(t *testing.T) (nl *netlist.Netlist, a, b, c, d, g1, g2, po int) {
	t.Helper()
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	c = bld.AddPPI()
	d = bld.AddPPI()
	g1 = bld.AddLogic(netlist.And, a, b)
	g2 = bld.AddLogic(netlist.And, c, d)
	or := bld.AddLogic(netlist.Or, g1, g2)
	po = bld.AddPPO(or)
	var err error
	nl, err = bld.Build()
	require.NoError(t, err)

	return
}

func TestBoolDiffEncPropagatesToggleThroughOr(t *testing.T) {
	nl, a, b, c, d, g1, _, po := buildTree(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	bde := subenc.NewBoolDiffEnc(g1, nil)
	se.AddSubEnc(bde)
	se.AddCurNode(a)
	se.AddCurNode(b)
	se.AddCurNode(c)
	se.AddCurNode(d)
	se.Update()

	av := mustLit(t, se, a, 1)
	bv := mustLit(t, se, b, 1)
	cv := mustLit(t, se, c, 1)
	dv := mustLit(t, se, d, 1)

	// a=1,b=1 (g1=1) and c=0 (g2=0, OR observes g1): forcing propVar true
	// (a toggle at g1 reaching the PO) should be consistent.
	res, err := se.Solve(av, bv, cv.Not(), bde.PropVar())
	require.NoError(t, err)
	require.Equal(t, satsolver.Sat, res)
	_ = dv
	_ = po
}

func TestBoolDiffEncUnsatWhenOrMasksToggle(t *testing.T) {
	nl, a, b, c, d, g1, _, _ := buildTree(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	bde := subenc.NewBoolDiffEnc(g1, nil)
	se.AddSubEnc(bde)
	se.AddCurNode(a)
	se.AddCurNode(b)
	se.AddCurNode(c)
	se.AddCurNode(d)
	se.Update()

	av := mustLit(t, se, a, 1)
	bv := mustLit(t, se, b, 1)
	cv := mustLit(t, se, c, 1)
	dv := mustLit(t, se, d, 1)

	// c=1,d=1 forces g2=1, which forces the OR output to 1 regardless of
	// g1 — no difference can reach the PO, so propVar must be false.
	res, err := se.Solve(av, bv, cv, dv, bde.PropVar())
	require.NoError(t, err)
	require.Equal(t, satsolver.Unsat, res)
}

func TestFaultEncExcitationCondition(t *testing.T) {
	nl, a, b, _, _, g1, _, _ := buildTree(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	var sa0 netlist.Fault
	found := false
	for _, f := range nl.FaultList() {
		if f.Node == g1 && f.Pin == -1 && f.Kind == netlist.SA0 {
			sa0 = f
			found = true

			break
		}
	}
	require.True(t, found)

	fe := subenc.NewFaultEnc(sa0)
	se.AddSubEnc(fe)
	se.AddCurNode(a)
	se.AddCurNode(b)
	se.Update()

	av := mustLit(t, se, a, 1)
	bv := mustLit(t, se, b, 1)

	// SA0 at g1's output excites iff the good value there is 1 (a=b=1).
	res, err := se.Solve(av, bv, fe.ExciteVar)
	require.NoError(t, err)
	require.Equal(t, satsolver.Sat, res)

	res, err = se.Solve(av, bv.Not(), fe.ExciteVar)
	require.NoError(t, err)
	require.Equal(t, satsolver.Unsat, res)
}

// buildDiamond builds g1 = AND(a,b) with two consumers (fanout 2, so g1
// is its own FFR root), h1 = NOT(g1), h2 = BUFF(g1), po = AND(h1,h2): two
// FFRs (g1's, and {h1,h2,po}'s) merging into a single MFFC rooted at po.
func buildDiamond(t *testing.T) (nl *netlist.Netlist, g1, po int) {
	t.Helper()
	bld := netlist.NewBuilder()
	a := bld.AddPPI()
	b := bld.AddPPI()
	g1 = bld.AddLogic(netlist.And, a, b)
	h1 := bld.AddLogic(netlist.Not, g1)
	h2 := bld.AddLogic(netlist.Buff, g1)
	and := bld.AddLogic(netlist.And, h1, h2)
	po = bld.AddPPO(and)
	var err error
	nl, err = bld.Build()
	require.NoError(t, err)

	return
}

func TestMFFCEncCoversBothFFRRoots(t *testing.T) {
	nl, g1, po := buildDiamond(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	me := subenc.NewMFFCEnc(po)
	se.AddSubEnc(me)
	se.Update()

	roots := me.FFRRoots()
	require.Contains(t, roots, g1)
	require.Contains(t, roots, po)
	require.Len(t, roots, 2)
}

func mustLit(t *testing.T, se *structenc.StructEngine, node int, time uint8) satsolver.Lit {
	t.Helper()
	lit, err := se.ConvToLiteral(assign.Assignment{Node: node, Time: time, Value: 1})
	require.NoError(t, err)

	return lit
}
