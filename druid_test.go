package druid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	druid "github.com/yusuke-matsunaga/druid-sub002"
	"github.com/yusuke-matsunaga/druid-sub002/dtpg"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/fsim"
)

func TestRunDetectsEveryFaultOnS27Like(t *testing.T) {
	nl := fixtures.S27Like()
	ids := nl.RepFaultList()
	require.NotEmpty(t, ids)

	cfg := dtpg.NewConfig()
	res, err := druid.Run(nl, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, res.Detected)
	require.LessOrEqual(t, len(res.ReducedFaultIDs), len(res.Detected))

	fs := fsim.New(nl)
	for _, id := range res.Detected {
		tv := res.Vectors[id]
		require.NotNil(t, tv)
		_, detected := fs.SPSFP(tv, id)
		require.True(t, detected, "fault %d's own vector must verify", id)
	}
}

func TestRunMultiThreadMatchesSingleThreadCounts(t *testing.T) {
	nl := fixtures.S27Like()

	single, err := druid.Run(nl, dtpg.NewConfig())
	require.NoError(t, err)

	multi, err := druid.Run(nl, dtpg.NewConfig(dtpg.WithMultiThread(2)))
	require.NoError(t, err)

	require.ElementsMatch(t, single.ReducedFaultIDs, multi.ReducedFaultIDs)
}

func TestRunEncDriverMatchesEngineDriver(t *testing.T) {
	nl := fixtures.S27Like()

	engine, err := druid.Run(nl, dtpg.NewConfig())
	require.NoError(t, err)

	enc, err := druid.Run(nl, dtpg.NewConfig(dtpg.WithDriverType(dtpg.DriverEnc)))
	require.NoError(t, err)

	require.Equal(t, len(engine.Untestable), len(enc.Untestable))
	require.ElementsMatch(t, engine.Detected, enc.Detected)
}
