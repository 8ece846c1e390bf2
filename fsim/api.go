package fsim

import (
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// SPSFP (single-pattern, single-fault) simulates fault on pattern and
// reports whether it propagates to any PPO, and if so, which ones — lane 0
// of the returned DiffBits is the only meaningful lane. SPSFP ignores the
// fault's skip flag: callers name the fault explicitly.
func (fs *Fsim) SPSFP(pattern *tvec.TestVector, fault int) (DiffBits, bool) {
	frame0, frame1 := fs.computeFrames([]*tvec.TestVector{pattern})
	diff := fs.simulateFault(frame0, frame1, fs.nl.Fault(fault))

	return diff, diff.AnyLane()
}

// SPPFP (single-pattern, parallel-fault) simulates every non-skipped
// representative fault (nl.RepFaultList) against one pattern, reporting each detected fault's output diff via
// onDetect. Detected faults are not automatically skipped; callers that
// want drop-on-first-detect must call SetSkip themselves.
func (fs *Fsim) SPPFP(pattern *tvec.TestVector, onDetect func(fault int, d DiffBits)) {
	frame0, frame1 := fs.computeFrames([]*tvec.TestVector{pattern})
	for _, fid := range fs.nl.RepFaultList() {
		if fs.skip[fid] {
			continue
		}
		diff := fs.simulateFault(frame0, frame1, fs.nl.Fault(fid))
		if diff.AnyLane() {
			onDetect(fid, diff)
		}
	}
}

// PPSFP (parallel-pattern, parallel-fault) packs up to PVBitLen patterns
// into one simulation pass, then simulates every non-skipped representative
// fault (nl.RepFaultList) once
// against all packed patterns simultaneously, reporting per-fault,
// per-pattern-lane detection via onDetect.
func (fs *Fsim) PPSFP(patterns []*tvec.TestVector, onDetect func(fault int, d DiffBits)) {
	frame0, frame1 := fs.computeFrames(patterns)
	for _, fid := range fs.nl.RepFaultList() {
		if fs.skip[fid] {
			continue
		}
		diff := fs.simulateFault(frame0, frame1, fs.nl.Fault(fid))
		if diff.AnyLane() {
			onDetect(fid, diff)
		}
	}
}

// CalcWSA simulates pattern's good frame-1 values (using and then updating
// the stored sequential state, so a caller can stream successive functional
// vectors through repeated calls) and returns the weighted switching
// activity: the number of nodes whose value changed since the previous
// call, each counted once if weighted is false or (fanout-count+1) times if
// weighted is true. The first call after New has no prior snapshot, so it
// reports 0.
func (fs *Fsim) CalcWSA(pattern *tvec.TestVector, weighted bool) int {
	_, frame1 := fs.computeFrames([]*tvec.TestVector{pattern})

	wsa := 0
	if fs.lastGood != nil {
		for id := 0; id < fs.nl.NumNodes(); id++ {
			if fs.lastGood[id].Lane(0) == frame1[id].Lane(0) {
				continue
			}
			weight := 1
			if weighted {
				weight = len(fs.nl.Node(id).Fanouts()) + 1
			}
			wsa += weight
		}
	}

	fs.lastGood = frame1

	for _, id := range fs.nl.PPOs() {
		n := fs.nl.Node(id)
		if n.Kind == netlist.KindDFFIn {
			fs.state[n.Peer] = fromBit(frame1[id].Lane(0))
		}
	}

	return wsa
}
