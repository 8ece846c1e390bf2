package tvec_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

func buildSmall(t *testing.T) *netlist.Netlist {
	t.Helper()
	b := netlist.NewBuilder()
	a := b.AddPPI()
	bb := b.AddPPI()
	dIn, _ := b.AddDFF(bb)
	g := b.AddLogic(netlist.And, a, bb)
	_ = dIn
	b.AddPPO(g)
	nl, err := b.Build()
	require.NoError(t, err)

	return nl
}

func TestHexRoundTrip(t *testing.T) {
	nl := buildSmall(t)
	tv := tvec.New(nl)

	pis := nl.PrimaryInputs()
	require.NoError(t, tv.SetCur(pis[0], tvec.One))
	require.NoError(t, tv.SetCur(pis[1], tvec.Zero))

	ppis := nl.PPIs()
	require.NoError(t, tv.SetPrev(ppis[0], tvec.X))

	s := tv.HexStr()
	got, err := tvec.Parse(nl, s)
	require.NoError(t, err)
	require.Equal(t, tv.PPIPrev, got.PPIPrev)
	require.Equal(t, tv.PI, got.PI)
}

func TestFixXFromRandomPreservesDefinedBits(t *testing.T) {
	nl := buildSmall(t)
	tv := tvec.New(nl)
	pis := nl.PrimaryInputs()
	require.NoError(t, tv.SetCur(pis[0], tvec.One))

	rng := rand.New(rand.NewSource(1))
	fixed := tv.FixXFromRandom(func() bool { return rng.Intn(2) == 1 })

	for i, b := range fixed.PI {
		require.NotEqual(t, tvec.X, b)
		if tv.PI[i] != tvec.X {
			require.Equal(t, tv.PI[i], fixed.PI[i])
		}
	}
}
