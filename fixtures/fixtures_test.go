package fixtures_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
)

func TestXorTreeShape(t *testing.T) {
	nl, _, _, _, _, g1, g2, po := fixtures.XorTree()
	require.Equal(t, netlist.And, nl.Node(g1).Gate)
	require.Equal(t, netlist.And, nl.Node(g2).Gate)
	require.NotEqual(t, g1, g2)
	require.True(t, nl.Node(po).IsPPO())
}

func TestScanLatchLinksPeers(t *testing.T) {
	nl, _, _, dffIn, dffOut, _ := fixtures.ScanLatch()
	require.Equal(t, dffIn, nl.Node(dffOut).Peer)
	require.Equal(t, dffOut, nl.Node(dffIn).Peer)
}

func TestS27LikeBuilds(t *testing.T) {
	nl := fixtures.S27Like()
	require.Len(t, nl.PPOs(), 3) // n4, n5, and the DFFIn
	require.NotEmpty(t, nl.FaultList())
}
