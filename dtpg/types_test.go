package dtpg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusuke-matsunaga/druid-sub002/dtpg"
)

func TestLoadConfigOverDefaults(t *testing.T) {
	cfg, err := dtpg.LoadConfig([]byte("group_mode: mffc\njustifier: just2\ncube_per_fault: 3\n"))
	require.NoError(t, err)
	require.Equal(t, dtpg.GroupMFFC, cfg.GroupMode)
	require.Equal(t, "just2", cfg.Justifier)
	require.Equal(t, 3, cfg.CubePerFault)
	// Untouched keys keep their defaults.
	require.Equal(t, dtpg.DriverEngine, cfg.DriverType)
	require.NotNil(t, cfg.NewSolver)
}

func TestConfigDumpRoundTrips(t *testing.T) {
	orig := dtpg.NewConfig(dtpg.WithGroupMode(dtpg.GroupNode), dtpg.WithCubePerFault(2))
	data, err := orig.Dump()
	require.NoError(t, err)

	back, err := dtpg.LoadConfig(data)
	require.NoError(t, err)
	require.Equal(t, orig.GroupMode, back.GroupMode)
	require.Equal(t, orig.DriverType, back.DriverType)
	require.Equal(t, orig.Justifier, back.Justifier)
	require.Equal(t, orig.CubePerFault, back.CubePerFault)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	_, err := dtpg.LoadConfig([]byte("group_mode: [unclosed"))
	require.Error(t, err)
}
