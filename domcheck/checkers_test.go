package domcheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/domcheck"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
)

func TestFFRCheckerSA0DominatesItself(t *testing.T) {
	// g1 fans out to both po1 and g2 here, making it a genuine FFR root.
	nl, _, _, _, g1, _, _, _ := fixtures.TwoOutputMFFC()

	var ffrIdx, root int = -1, -1
	for i, ffr := range nl.FFRs() {
		if ffr.Root == g1 {
			ffrIdx = i
			root = ffr.Root
		}
	}
	require.GreaterOrEqual(t, ffrIdx, 0)

	var faults []netlist.Fault
	var sa0ID int = -1
	for _, id := range nl.RepFaultList() {
		f := nl.Fault(id)
		if f.Node == g1 {
			faults = append(faults, f)
			if f.Kind == netlist.SA0 {
				sa0ID = id
			}
		}
	}
	require.NotEmpty(t, faults)
	require.GreaterOrEqual(t, sa0ID, 0)

	checker := domcheck.NewFFRChecker(nl, satsolver.NewCDCL(), root, faults)
	dominates, err := checker.Dominates(sa0ID, sa0ID)
	require.NoError(t, err)
	require.True(t, dominates)
}

func TestTrivialCheckerSameConditionDominates(t *testing.T) {
	nl, _, _, _, g1, _, _, _ := fixtures.TwoOutputMFFC()

	var cond netlist.Fault
	for _, id := range nl.RepFaultList() {
		f := nl.Fault(id)
		if f.Node == g1 && f.Kind == netlist.SA0 {
			cond = f
			break
		}
	}
	require.NotNil(t, cond.FFRPropagateCondition)

	tc := domcheck.NewTrivialChecker(nl, func() satsolver.Solver { return satsolver.NewCDCL() })
	dominates, err := tc.Dominates(cond.FFRPropagateCondition, cond.FFRPropagateCondition)
	require.NoError(t, err)
	require.True(t, dominates)
}
