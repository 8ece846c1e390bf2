package fsim_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/fsim"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// buildAndGate builds g <- AND(a, b); a, b primary inputs, out a primary
// output.
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

func findFault(nl *netlist.Netlist, node, pin int, kind netlist.FaultKind) int {
	for _, f := range nl.FaultList() {
		if f.Node == node && f.Pin == pin && f.Kind == kind {
			return f.ID
		}
	}

	return -1
}

func TestSPSFPDetectsOutputSA0(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	tv := tvec.New(nl)
	require.NoError(t, tv.SetCur(a, tvec.One))
	require.NoError(t, tv.SetCur(b, tvec.One))

	fid := findFault(nl, g, -1, netlist.SA0)
	require.GreaterOrEqual(t, fid, 0)

	diff, detected := fs.SPSFP(tv, fid)
	require.True(t, detected)
	require.NotZero(t, diff)
}

func TestSPSFPUndetectedWhenInputForcesZero(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	tv := tvec.New(nl)
	require.NoError(t, tv.SetCur(a, tvec.Zero))
	require.NoError(t, tv.SetCur(b, tvec.One))

	fid := findFault(nl, g, -1, netlist.SA0)
	require.GreaterOrEqual(t, fid, 0)

	_, detected := fs.SPSFP(tv, fid)
	require.False(t, detected)
}

func TestSPPFPFindsAtLeastTheOutputFault(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	tv := tvec.New(nl)
	require.NoError(t, tv.SetCur(a, tvec.One))
	require.NoError(t, tv.SetCur(b, tvec.One))

	sa0 := findFault(nl, g, -1, netlist.SA0)
	found := make(map[int]bool)
	fs.SPPFP(tv, func(fault int, d fsim.DiffBits) {
		found[fault] = true
	})
	require.True(t, found[sa0])
}

func TestPPSFPPacksMultiplePatterns(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	tv1 := tvec.New(nl)
	require.NoError(t, tv1.SetCur(a, tvec.One))
	require.NoError(t, tv1.SetCur(b, tvec.One))

	tv2 := tvec.New(nl)
	require.NoError(t, tv2.SetCur(a, tvec.Zero))
	require.NoError(t, tv2.SetCur(b, tvec.One))

	sa0 := findFault(nl, g, -1, netlist.SA0)
	var gotMask uint64
	fs.PPSFP([]*tvec.TestVector{tv1, tv2}, func(fault int, d fsim.DiffBits) {
		if fault == sa0 {
			for _, mask := range d {
				gotMask |= mask
			}
		}
	})
	require.Equal(t, uint64(1), gotMask) // only lane 0 (tv1) sensitizes the fault
}

func TestSkipMaskSuppressesFault(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	tv := tvec.New(nl)
	require.NoError(t, tv.SetCur(a, tvec.One))
	require.NoError(t, tv.SetCur(b, tvec.One))

	sa0 := findFault(nl, g, -1, netlist.SA0)
	fs.SetSkip(sa0)

	found := false
	fs.SPPFP(tv, func(fault int, d fsim.DiffBits) {
		if fault == sa0 {
			found = true
		}
	})
	require.False(t, found)

	fs.ClearSkip(sa0)
	fs.SPPFP(tv, func(fault int, d fsim.DiffBits) {
		if fault == sa0 {
			found = true
		}
	})
	require.True(t, found)
}

func TestCalcWSACountsToggles(t *testing.T) {
	nl, a, b, _ := buildAndGate(t)
	fs := fsim.New(nl)

	tv1 := tvec.New(nl)
	require.NoError(t, tv1.SetCur(a, tvec.Zero))
	require.NoError(t, tv1.SetCur(b, tvec.Zero))
	require.Equal(t, 0, fs.CalcWSA(tv1, false)) // no prior snapshot

	tv2 := tvec.New(nl)
	require.NoError(t, tv2.SetCur(a, tvec.One))
	require.NoError(t, tv2.SetCur(b, tvec.Zero))
	n := fs.CalcWSA(tv2, false)
	require.Greater(t, n, 0)
}

// buildBranchPair builds g1 <- OR(a, b), g2 <- NOT(a) with both observed,
// so a fault on g1's a-pin and a fault on the a stem are distinguishable.
func buildBranchPair(t *testing.T) (nl *netlist.Netlist, a, b, g1, g2, po1, po2 int) {
	t.Helper()
	bld := netlist.NewBuilder()
	a = bld.AddPPI()
	b = bld.AddPPI()
	g1 = bld.AddLogic(netlist.Or, a, b)
	g2 = bld.AddLogic(netlist.Not, a)
	po1 = bld.AddPPO(g1)
	po2 = bld.AddPPO(g2)
	var err error
	nl, err = bld.Build()
	require.NoError(t, err)

	return
}

func TestSPSFPBranchFaultStaysOnItsBranch(t *testing.T) {
	nl, a, b, g1, _, po1, po2 := buildBranchPair(t)
	fs := fsim.New(nl)

	tv := tvec.New(nl)
	require.NoError(t, tv.SetCur(a, tvec.One))
	require.NoError(t, tv.SetCur(b, tvec.Zero))

	fid := findFault(nl, g1, 0, netlist.SA0)
	require.GreaterOrEqual(t, fid, 0)

	// The a-pin of g1 stuck at 0 kills g1's output, but a's other branch
	// (g2) must keep seeing the good value 1.
	diff, detected := fs.SPSFP(tv, fid)
	require.True(t, detected)
	require.NotZero(t, diff[po1])
	require.Zero(t, diff[po2])
}

func TestSPSFPTransitionKindMatchesEdge(t *testing.T) {
	nl, a, b, g := buildAndGate(t)
	fs := fsim.New(nl)

	// Launch 1 -> capture 0 at g: a falling edge.
	tv := tvec.New(nl)
	require.NoError(t, tv.SetPrev(a, tvec.One))
	require.NoError(t, tv.SetPrev(b, tvec.One))
	require.NoError(t, tv.SetCur(a, tvec.Zero))
	require.NoError(t, tv.SetCur(b, tvec.One))

	fall := findFault(nl, g, -1, netlist.TransitionFall)
	rise := findFault(nl, g, -1, netlist.TransitionRise)
	require.GreaterOrEqual(t, fall, 0)
	require.GreaterOrEqual(t, rise, 0)

	_, detected := fs.SPSFP(tv, fall)
	require.True(t, detected)

	// A slow-to-rise fault has nothing to be slow about on a falling
	// pattern.
	_, detected = fs.SPSFP(tv, rise)
	require.False(t, detected)
}
