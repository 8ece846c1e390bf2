package fsim

import "github.com/yusuke-matsunaga/druid-sub002/tvec"

// PVBitLen is the number of parallel lanes (simulated patterns) packed into
// one PackedVal.
const PVBitLen = 64

// PackedVal is 64 lanes of 3-valued logic, one bit per lane in each word:
// (V0=1,V1=0) is logic 0, (V0=0,V1=1) is logic 1, (V0=0,V1=0) is X. Both
// bits set never occurs.
type PackedVal struct {
	V0 uint64
	V1 uint64
}

// allX, allZero and allOne are the all-lane constant PackedVals; allZero
// and allOne serve C0/C1 source gates and stuck-at fault injection.
// Unused pattern lanes are left X.
var (
	allX    = PackedVal{}
	allZero = PackedVal{V0: ^uint64(0)}
	allOne  = PackedVal{V1: ^uint64(0)}
)

// Lane extracts lane i (0-based) of pv as a tvec.Bit.
func (pv PackedVal) Lane(i int) tvec.Bit {
	bit := uint64(1) << uint(i)
	switch {
	case pv.V0&bit != 0:
		return tvec.Zero
	case pv.V1&bit != 0:
		return tvec.One
	default:
		return tvec.X
	}
}

// fromBit packs a single tvec.Bit into lane 0, all other lanes X.
func fromBit(b tvec.Bit) PackedVal {
	switch b {
	case tvec.Zero:
		return PackedVal{V0: 1}
	case tvec.One:
		return PackedVal{V1: 1}
	default:
		return allX
	}
}

// fromBits packs up to PVBitLen Bits, one per lane, in slice order.
func fromBits(bits []tvec.Bit) PackedVal {
	var pv PackedVal
	for i, b := range bits {
		if i >= PVBitLen {
			break
		}
		bit := uint64(1) << uint(i)
		switch b {
		case tvec.Zero:
			pv.V0 |= bit
		case tvec.One:
			pv.V1 |= bit
		}
	}

	return pv
}

// diffMask returns the bitmask of lanes where a and b are both defined and
// differ (X on either side never counts as a difference).
func diffMask(a, b PackedVal) uint64 {
	return (a.V0 & b.V1) | (a.V1 & b.V0)
}

// DiffBits records, for a single fault against a single good/faulty
// simulation run, the lanes (pattern indices) at which each observed PPO/
// DFFIn node differs: node id -> bitmask of differing lanes.
type DiffBits map[int]uint64

// AnyLane reports whether d records any differing lane at all.
func (d DiffBits) AnyLane() bool {
	for _, mask := range d {
		if mask != 0 {
			return true
		}
	}

	return false
}
