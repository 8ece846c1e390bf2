package dtpg_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusuke-matsunaga/druid-sub002/dtpg"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/fsim"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// runAll calls dtpg.Run over every representative fault of nl under cfg
// and returns the detected vectors plus untestable/aborted counts.
func runAll(t *testing.T, nl *netlist.Netlist, cfg *dtpg.Config) (detected map[int]*tvec.TestVector, untestable, aborted int) {
	t.Helper()
	detected = make(map[int]*tvec.TestVector)
	cb := dtpg.Callbacks{
		OnDetect: func(id int, tv *tvec.TestVector) { detected[id] = tv },
		OnUntest: func(id int) { untestable++ },
		OnAbort:  func(id int) { aborted++ },
	}
	_, err := dtpg.Run(nl, nl.RepFaultList(), cfg, cb)
	require.NoError(t, err)

	return detected, untestable, aborted
}

// TestGroupModeMatrixOnNestedMFFC runs every group_mode x driver_type x
// justifier combination (spec §8's seed-test matrix) against a netlist
// containing a genuine multi-FFR MFFC whose stem (g0) is NOT itself a
// primary output and is NOT absorbed into a single one-hop successor FFR —
// exactly the shape that previously let an engine_driver/enc_driver "mffc"
// query report Detected without confirming propagation past the MFFC
// boundary to an actual primary output (MFFCEnc.PropVar alone only proves
// divergence at the MFFC's own root node). Every combination must agree on
// detected/untestable counts, and every detected vector must verify under
// fsim.SPSFP.
func TestGroupModeMatrixOnNestedMFFC(t *testing.T) {
	nl, _, _, _, _, _, _, _ := fixtures.NestedMFFC()
	require.NotEmpty(t, nl.RepFaultList())

	groupModes := []dtpg.GroupMode{dtpg.GroupNode, dtpg.GroupFFR, dtpg.GroupMFFC}
	driverTypes := []dtpg.DriverType{dtpg.DriverEngine, dtpg.DriverEnc}
	justifiers := []string{"naive", "just1", "just2"}

	var wantDetected, wantUntestable int
	haveBaseline := false

	for _, gm := range groupModes {
		for _, dt := range driverTypes {
			for _, j := range justifiers {
				name := fmt.Sprintf("%s/%s/%s", gm, dt, j)
				t.Run(name, func(t *testing.T) {
					cfg := dtpg.NewConfig(
						dtpg.WithGroupMode(gm),
						dtpg.WithDriverType(dt),
						dtpg.WithJustifier(j),
					)
					detected, untestable, aborted := runAll(t, nl, cfg)
					require.Zero(t, aborted, "no SAT call should abort on this small a circuit")

					if !haveBaseline {
						wantDetected, wantUntestable = len(detected), untestable
						haveBaseline = true
					} else {
						require.Equal(t, wantDetected, len(detected), "detected count must match across configurations")
						require.Equal(t, wantUntestable, untestable, "untestable count must match across configurations")
					}

					fs := fsim.New(nl)
					for id, tv := range detected {
						_, ok := fs.SPSFP(tv, id)
						require.True(t, ok, "fault %d's test vector must verify under fsim.SPSFP (group_mode=%s driver_type=%s justifier=%s)", id, gm, dt, j)
					}
				})
			}
		}
	}

	require.NotZero(t, wantDetected)
}

// TestGroupModeMatrixOnS27Like runs the same matrix over fixtures.S27Like,
// a sequential (scan) fragment, to additionally exercise two-frame
// transition-delay faults under every group_mode.
func TestGroupModeMatrixOnS27Like(t *testing.T) {
	nl := fixtures.S27Like()
	require.NotEmpty(t, nl.RepFaultList())

	for _, gm := range []dtpg.GroupMode{dtpg.GroupNode, dtpg.GroupFFR, dtpg.GroupMFFC} {
		for _, dt := range []dtpg.DriverType{dtpg.DriverEngine, dtpg.DriverEnc} {
			name := fmt.Sprintf("%s/%s", gm, dt)
			t.Run(name, func(t *testing.T) {
				cfg := dtpg.NewConfig(dtpg.WithGroupMode(gm), dtpg.WithDriverType(dt))
				detected, _, _ := runAll(t, nl, cfg)
				require.NotEmpty(t, detected)

				fs := fsim.New(nl)
				for id, tv := range detected {
					_, ok := fs.SPSFP(tv, id)
					require.True(t, ok, "fault %d's test vector must verify under fsim.SPSFP", id)
				}
			})
		}
	}
}
