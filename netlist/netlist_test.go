package netlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
)

// buildSample constructs:
//
//	a(0) b(1) ─AND─▶ g3(2) ─OR──▶ g4(4) ─▶ PPO1(6)
//	            │            ╲
//	c(3) ───────┴────AND──▶ g5(5) ─▶ PPO2(7)
//
// g3 and c each fan out to both g4 and g5.
func buildSample(t *testing.T) *netlist.Netlist {
	t.Helper()
	b := netlist.NewBuilder()
	a := b.AddPPI()
	bb := b.AddPPI()
	g3 := b.AddLogic(netlist.And, a, bb)
	c := b.AddPPI()
	g4 := b.AddLogic(netlist.Or, g3, c)
	g5 := b.AddLogic(netlist.And, g3, c)
	b.AddPPO(g4)
	b.AddPPO(g5)

	nl, err := b.Build()
	require.NoError(t, err)

	return nl
}

func TestBuildRejectsForwardReference(t *testing.T) {
	b := netlist.NewBuilder()
	b.AddLogic(netlist.Buff, 5) // 5 does not exist yet
	_, err := b.Build()
	require.ErrorIs(t, err, netlist.ErrBadFanin)
}

func TestFFRPartition(t *testing.T) {
	nl := buildSample(t)

	// Every node belongs to exactly one FFR, and FFRs partition [0, N).
	seen := make(map[int]bool)
	for _, f := range nl.FFRs() {
		for _, id := range f.Nodes {
			require.False(t, seen[id], "node %d in two FFRs", id)
			seen[id] = true
			require.Equal(t, f, nl.FFR(id))
		}
	}
	require.Equal(t, nl.NumNodes(), len(seen))

	// g3 (id 2) and c (id 3) both fan out to g4 and g5: they are FFR roots.
	require.Equal(t, 2, nl.FFR(2).Root)
	require.Equal(t, 3, nl.FFR(3).Root)
	require.ElementsMatch(t, []int{0, 1, 2}, nl.FFR(2).Nodes)
	require.ElementsMatch(t, []int{3}, nl.FFR(3).Nodes)

	// g4 (id 4) feeds only PPO1 (id 6); they share an FFR rooted at the PPO.
	require.Equal(t, 6, nl.FFR(4).Root)
	require.ElementsMatch(t, []int{4, 6}, nl.FFR(4).Nodes)
	require.Equal(t, 7, nl.FFR(5).Root)
	require.ElementsMatch(t, []int{5, 7}, nl.FFR(5).Nodes)
}

func TestMFFCPartition(t *testing.T) {
	nl := buildSample(t)

	seen := make(map[int]bool)
	for _, m := range nl.MFFCs() {
		for _, id := range m.Nodes {
			require.False(t, seen[id])
			seen[id] = true
		}
	}
	require.Equal(t, nl.NumNodes(), len(seen))

	// Every FFR belongs to exactly one MFFC.
	ffrSeen := make(map[int]bool)
	for _, m := range nl.MFFCs() {
		for _, fi := range m.FFRs {
			require.False(t, ffrSeen[fi])
			ffrSeen[fi] = true
		}
	}
	require.Equal(t, len(nl.FFRs()), len(ffrSeen))
}

// TestMFFCDominanceAcrossNestedStems exercises the two-level reconvergence
// fixtures.NestedMFFC was built for: g0 fans out to m1 and m2, which only
// reconverge one FFR further downstream at r/po. g0's immediate fanouts
// land in two distinct one-hop FFRs, so a one-hop "single successor FFR"
// check would wrongly give g0 its own singleton MFFC. True post-dominance
// places g0 in the same MFFC as r, since every path out of g0 passes
// through r's FFR.
func TestMFFCDominanceAcrossNestedStems(t *testing.T) {
	nl, _, _, _, _, g0, m1, po := fixtures.NestedMFFC()

	g0MFFC := nl.MFFC(g0)
	rMFFC := nl.MFFC(po)
	require.Equal(t, rMFFC.Root, g0MFFC.Root, "g0 must be dominated by r's FFR, not its own")
	require.Contains(t, g0MFFC.Nodes, g0)
	require.Contains(t, g0MFFC.Nodes, po)

	// m1 fans out twice (to u1 and u2) but both land back in r's FFR one
	// hop later, so m1 itself is also swallowed into the same MFFC.
	require.Equal(t, rMFFC.Root, nl.MFFC(m1).Root)
}

func TestTFOIncludesSeedsAndPPOs(t *testing.T) {
	nl := buildSample(t)

	var ppos []int
	got := nl.TFO([]int{2}, func(id int) { ppos = append(ppos, id) })
	require.Subset(t, got, []int{2, 4, 5, 6, 7})
	require.ElementsMatch(t, []int{6, 7}, ppos)
}

func TestTFIIncludesSeedsAndIsTopological(t *testing.T) {
	nl := buildSample(t)

	got := nl.TFI([]int{6}, nil)
	require.ElementsMatch(t, []int{0, 1, 2, 3, 4, 6}, got)
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1], got[i])
	}
}

func TestFaultListAndEquivalence(t *testing.T) {
	nl := buildSample(t)

	require.Equal(t, 64, nl.MaxFaultID()) // 16 sites × {SA0, SA1, STR, STF}

	findFault := func(node, pin int, kind netlist.FaultKind) int {
		for _, f := range nl.FaultList() {
			if f.Node == node && f.Pin == pin && f.Kind == kind {
				return f.ID
			}
		}
		t.Fatalf("fault (node=%d pin=%d kind=%s) not found", node, pin, kind)

		return -1
	}

	// AND gate g3 (id 2): out/SA0 ≡ in0/SA0 ≡ in1/SA0.
	outSA0 := findFault(2, -1, netlist.SA0)
	in0SA0 := findFault(2, 0, netlist.SA0)
	in1SA0 := findFault(2, 1, netlist.SA0)
	require.Equal(t, nl.FaultRepresentative(outSA0), nl.FaultRepresentative(in0SA0))
	require.Equal(t, nl.FaultRepresentative(outSA0), nl.FaultRepresentative(in1SA0))

	// out/SA1 is not equivalent to in0/SA1 under the AND rule.
	outSA1 := findFault(2, -1, netlist.SA1)
	in0SA1 := findFault(2, 0, netlist.SA1)
	require.NotEqual(t, nl.FaultRepresentative(outSA1), nl.FaultRepresentative(in0SA1))

	// RepFaultList is strictly smaller than the full list given the merges above.
	require.Less(t, len(nl.RepFaultList()), nl.MaxFaultID())
}

func TestFFRPropagateConditionOfANDInput(t *testing.T) {
	nl := buildSample(t)
	// fault on g3's input 0 (node a=0): propagating through g3 (AND) requires
	// the other AND input (b=1) to be 1; g3 is itself the FFR root here, so
	// no further hop is needed.
	var target netlist.Fault
	for _, f := range nl.FaultList() {
		if f.Node == 2 && f.Pin == 0 && f.Kind == netlist.SA0 {
			target = f
		}
	}
	v, ok := target.FFRPropagateCondition.Find(1, 1)
	require.True(t, ok)
	require.EqualValues(t, 1, v)
}
