package domcand_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/domcand"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
)

func TestGenerateExcludesSelf(t *testing.T) {
	nl := fixtures.S27Like()
	ids := nl.RepFaultList()
	require.NotEmpty(t, ids)

	r := rand.New(rand.NewSource(1))
	rng := func() bool { return r.Intn(2) == 1 }

	cand := domcand.Generate(nl, ids, nil, 2, rng)
	for _, f := range ids {
		list, ok := cand[f]
		require.True(t, ok)
		for _, g := range list {
			require.NotEqual(t, f, g)
		}
	}
}

func TestGenerateCoversEveryFault(t *testing.T) {
	nl, _, _, _, _, _, _, _ := fixtures.XorTree()
	ids := nl.RepFaultList()
	require.NotEmpty(t, ids)

	r := rand.New(rand.NewSource(2))
	rng := func() bool { return r.Intn(2) == 1 }

	cand := domcand.Generate(nl, ids, nil, 3, rng)
	require.Len(t, cand, len(ids))
	for _, f := range ids {
		for _, g := range cand[f] {
			require.Contains(t, ids, g)
		}
	}
}
