package structenc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

func buildAndGate(t *testing.T) (*netlist.Netlist, int, int, int) {
	t.Helper()
	b := netlist.NewBuilder()
	a := b.AddPPI()
	bb := b.AddPPI()
	g := b.AddLogic(netlist.And, a, bb)
	b.AddPPO(g)
	nl, err := b.Build()
	require.NoError(t, err)

	return nl, a, bb, g
}

func TestUpdateEncodesRequestedCone(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	se.AddCurNode(g)
	se.Update()

	litG, err := se.ConvToLiteral(assign.Assignment{Node: g, Time: 1, Value: 1})
	require.NoError(t, err)
	litA, err := se.ConvToLiteral(assign.Assignment{Node: a, Time: 1, Value: 1})
	require.NoError(t, err)
	litB, err := se.ConvToLiteral(assign.Assignment{Node: b, Time: 1, Value: 1})
	require.NoError(t, err)

	res, err := solver.Solve(litG, litA.Not(), litB)
	require.NoError(t, err)
	require.Equal(t, satsolver.Unsat, res) // AND output can't be 1 with one input forced 0
}

func TestConvToLiteralFailsForUnencodedNode(t *testing.T) {
	nl, _, _, g := buildAndGate(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)

	_, err := se.ConvToLiteral(assign.Assignment{Node: g, Time: 1, Value: 1})
	require.ErrorIs(t, err, structenc.ErrNotRegistered)
}

func TestValReadsModelAfterSolve(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	solver := satsolver.NewCDCL()
	se := structenc.New(nl, solver, false)
	se.AddCurNode(g)
	se.Update()

	litA, _ := se.ConvToLiteral(assign.Assignment{Node: a, Time: 1, Value: 1})
	litB, _ := se.ConvToLiteral(assign.Assignment{Node: b, Time: 1, Value: 1})
	res, err := se.Solve(litA, litB)
	require.NoError(t, err)
	require.Equal(t, satsolver.Sat, res)
	require.Equal(t, tvec.One, se.Val(g, 1))
}
