package reducer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/reducer"
)

func TestReduceNeverDropsEverything(t *testing.T) {
	nl := fixtures.S27Like()
	ids := nl.RepFaultList()
	require.NotEmpty(t, ids)

	r := reducer.New(nl, reducer.WithLoopLimit(2))
	survivors, stats, err := r.Reduce(ids)
	require.NoError(t, err)
	require.Equal(t, len(ids), stats.Initial)
	require.NotEmpty(t, survivors)
	require.LessOrEqual(t, len(survivors), len(ids))
	require.Equal(t, len(survivors), stats.Survivors)
}

func TestReduceWithFaultAnalysis(t *testing.T) {
	nl, _, _, _, _, _, _, _ := fixtures.TwoOutputMFFC()
	ids := nl.RepFaultList()
	require.NotEmpty(t, ids)

	r := reducer.New(nl, reducer.WithLoopLimit(2), reducer.WithFaultAnalysis(true), reducer.WithParallel(2))
	survivors, stats, err := r.Reduce(ids)
	require.NoError(t, err)
	require.LessOrEqual(t, len(survivors), len(ids))
	require.GreaterOrEqual(t, stats.FFRReduced+stats.TrivialReduced+stats.GlobalReduced, 0)
}

func TestReduceEmptyInput(t *testing.T) {
	nl := fixtures.S27Like()
	r := reducer.New(nl)
	survivors, stats, err := r.Reduce(nil)
	require.NoError(t, err)
	require.Empty(t, survivors)
	require.Equal(t, 0, stats.Initial)
}
