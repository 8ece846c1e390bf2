package fsim

import (
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Fsim is a bit-parallel fault simulator bound to one Netlist. It is not
// safe for concurrent use; a multi-threaded reducer owns one Fsim per
// worker (spec §10's multi_thread mode).
type Fsim struct {
	nl *netlist.Netlist

	skip     []bool      // fault id -> skip flag
	state    []PackedVal // DFFOut node id -> stored sequential state (previous frame), zero value is all-X
	lastGood []PackedVal // previous CalcWSA call's frame-1 good values, nil before first call

	coneCache map[int][]int // fault-node id -> cached TFO cone, ascending
}

// New returns an Fsim bound to nl, with every fault initially unmasked and
// every flip-flop's stored state X.
func New(nl *netlist.Netlist) *Fsim {
	return &Fsim{
		nl:        nl,
		skip:      make([]bool, nl.MaxFaultID()),
		state:     make([]PackedVal, nl.NumNodes()),
		coneCache: make(map[int][]int),
	}
}

// SetSkip marks a fault to be excluded from SPPFP/PPSFP sweeps (already
// detected, or otherwise no longer of interest).
func (fs *Fsim) SetSkip(fault int) { fs.skip[fault] = true }

// ClearSkip un-marks a fault.
func (fs *Fsim) ClearSkip(fault int) { fs.skip[fault] = false }

// SetSkipAll marks every fault as skipped.
func (fs *Fsim) SetSkipAll() {
	for i := range fs.skip {
		fs.skip[i] = true
	}
}

// ClearSkipAll un-marks every fault.
func (fs *Fsim) ClearSkipAll() {
	for i := range fs.skip {
		fs.skip[i] = false
	}
}

// SetState sets the stored sequential value of a DFFOut node, used as the
// previous-frame value for any pattern that leaves that PPI's time-0 bit X.
func (fs *Fsim) SetState(node int, v tvec.Bit) {
	fs.state[node] = fromBit(v)
}

// GetState returns the stored sequential value of a DFFOut node.
func (fs *Fsim) GetState(node int) tvec.Bit {
	return fs.state[node].Lane(0)
}

func (fs *Fsim) coneOf(vn int) []int {
	if c, ok := fs.coneCache[vn]; ok {
		return c
	}
	c := fs.nl.TFO([]int{vn}, nil)
	fs.coneCache[vn] = c

	return c
}

// computeFrames runs the two-frame good-circuit evaluation for up to
// PVBitLen patterns packed lane-by-lane. frame0 uses each PPI's explicit
// PPIPrev bit when defined, falling back to Fsim's stored sequential state
// otherwise (merging the explicit two-pattern transition-fault model with
// ordinary scan/functional state persistence, spec §4.2/§4.4).
func (fs *Fsim) computeFrames(patterns []*tvec.TestVector) (frame0, frame1 []PackedVal) {
	n := fs.nl.NumNodes()
	frame0 = make([]PackedVal, n)
	frame1 = make([]PackedVal, n)

	for id := 0; id < n; id++ {
		node := fs.nl.Node(id)
		switch node.Kind {
		case netlist.KindPPI, netlist.KindDFFOut:
			pv := packLane(patterns, func(tv *tvec.TestVector) tvec.Bit {
				b, _ := tv.GetPrev(id)
				return b
			})
			frame0[id] = mergeWithState(pv, fs.state[id])
		case netlist.KindLogic:
			frame0[id] = evalGate(node.Gate, gatherIns(frame0, node.Fanins))
		case netlist.KindPPO, netlist.KindDFFIn:
			frame0[id] = frame0[node.Fanins[0]]
		}
	}

	for id := 0; id < n; id++ {
		node := fs.nl.Node(id)
		switch node.Kind {
		case netlist.KindPPI:
			frame1[id] = packLane(patterns, func(tv *tvec.TestVector) tvec.Bit {
				b, _ := tv.GetCur(id)
				return b
			})
		case netlist.KindDFFOut:
			frame1[id] = frame0[node.Peer] // DFFOut's current value = its DFFIn peer's previous-frame value
		case netlist.KindLogic:
			frame1[id] = evalGate(node.Gate, gatherIns(frame1, node.Fanins))
		case netlist.KindPPO, netlist.KindDFFIn:
			frame1[id] = frame1[node.Fanins[0]]
		}
	}

	return frame0, frame1
}

// mergeWithState fills lanes left undefined in pv (no explicit pattern bit)
// with the corresponding bit of the stored sequential state, lane by lane.
func mergeWithState(pv, state PackedVal) PackedVal {
	defined := pv.V0 | pv.V1
	return PackedVal{
		V0: pv.V0 | (state.V0 &^ defined),
		V1: pv.V1 | (state.V1 &^ defined),
	}
}

func gatherIns(vals []PackedVal, fanins []int) []PackedVal {
	ins := make([]PackedVal, len(fanins))
	for i, f := range fanins {
		ins[i] = vals[f]
	}

	return ins
}

// packLane builds a PackedVal from up to PVBitLen patterns via accessor.
func packLane(patterns []*tvec.TestVector, accessor func(*tvec.TestVector) tvec.Bit) PackedVal {
	var pv PackedVal
	for i, tv := range patterns {
		if i >= PVBitLen {
			break
		}
		b := accessor(tv)
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

// simulateFault computes, for one fault, the faulty frame-1 values within
// the fault node's topological forward cone (reusing good values for
// every fanin outside the cone) and returns the differing lanes at each
// PPO/DFFIn the cone reaches. An input-pin fault is injected at that one
// pin only — the net's other branches keep their good value.
func (fs *Fsim) simulateFault(frame0, frame1 []PackedVal, f netlist.Fault) DiffBits {
	vn := fs.nl.ValueNode(f.Node, f.Pin)
	override := faultyValue(f.Kind, frame0[vn], frame1[vn])

	seed := f.Node
	cone := fs.coneOf(seed)
	faulty := make(map[int]PackedVal, len(cone))
	if f.Pin < 0 {
		faulty[seed] = override
	} else {
		node := fs.nl.Node(seed)
		if node.Kind == netlist.KindLogic {
			ins := gatherIns(frame1, node.Fanins)
			ins[f.Pin] = override
			faulty[seed] = evalGate(node.Gate, ins)
		} else {
			// PPO/DFFIn pass their single input through.
			faulty[seed] = override
		}
	}

	for _, id := range cone {
		if id == seed {
			continue
		}
		node := fs.nl.Node(id)
		switch node.Kind {
		case netlist.KindLogic:
			ins := make([]PackedVal, len(node.Fanins))
			for i, fi := range node.Fanins {
				if v, ok := faulty[fi]; ok {
					ins[i] = v
				} else {
					ins[i] = frame1[fi]
				}
			}
			faulty[id] = evalGate(node.Gate, ins)
		case netlist.KindPPO, netlist.KindDFFIn:
			fi := node.Fanins[0]
			if v, ok := faulty[fi]; ok {
				faulty[id] = v
			} else {
				faulty[id] = frame1[fi]
			}
		default:
			// PPI/DFFOut nodes have no fanins and never appear as a non-seed
			// member of a forward cone.
		}
	}

	diff := make(DiffBits)
	for _, po := range fs.nl.PPOs() {
		fv, ok := faulty[po]
		if !ok {
			continue
		}
		mask := diffMask(fv, frame1[po])
		if mask != 0 {
			diff[po] = mask
		}
	}

	return diff
}

// faultyValue returns the lane-wise value the injection point takes under
// the fault. Stuck-at faults pin every lane; a transition fault only
// bites in lanes actually making the slow edge (prev/cur holding the
// launching and expected captured value), keeping the good value in every
// other lane so a rise fault is never charged with a fall detection.
func faultyValue(kind netlist.FaultKind, prev, cur PackedVal) PackedVal {
	switch kind {
	case netlist.SA0:
		return allZero
	case netlist.SA1:
		return allOne
	case netlist.TransitionRise:
		act := prev.V0 & cur.V1
		return PackedVal{V0: cur.V0 | act, V1: cur.V1 &^ act}
	case netlist.TransitionFall:
		act := prev.V1 & cur.V0
		return PackedVal{V0: cur.V0 &^ act, V1: cur.V1 | act}
	default:
		return allX
	}
}
