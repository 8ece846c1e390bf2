package dtpg

import (
	"time"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Driver is one region's test-generation strategy (spec §4.7's
// DtpgDriverImpl): solve a single fault's detection condition, justify
// it, and report the outcome through cb. EngineDriver and EncDriver
// implement it with different StructEngine-reuse policies; callers
// should program against this interface, not either concrete type.
type Driver interface {
	// FaultOp solves, justifies, and reports the outcome for faultID.
	FaultOp(faultID int, cb Callbacks) (Status, error)

	// SatStats returns the driver's accumulated SAT solver counters.
	SatStats() satsolver.Stats

	// Timings returns the driver's accumulated CNF-build/solve/justify
	// wall-clock times.
	Timings() Timings
}

// region is one grouping unit (a single node, an FFR, or an MFFC) plus
// the faults assigned to it.
type region struct {
	mode   GroupMode
	root   int // node id for "node"/"ffr", MFFC root for "mffc"
	faults []netlist.Fault

	// ffrRootOf maps fault ID -> its own FFR root, meaningful only in
	// "mffc" mode where region.root is the wider MFFC root and each
	// fault still needs its local FFR root to select an MFFCEnc EVar.
	ffrRootOf map[int]int
}

// groupFaults partitions faultIDs by cfg.GroupMode (spec §4.7: "node" |
// "ffr" | "mffc").
func groupFaults(nl *netlist.Netlist, faultIDs []int, mode GroupMode) ([]*region, error) {
	switch mode {
	case GroupNode:
		byNode := make(map[int]*region)
		var order []int
		for _, id := range faultIDs {
			f := nl.Fault(id)
			r, ok := byNode[f.Node]
			if !ok {
				r = &region{mode: mode, root: f.Node}
				byNode[f.Node] = r
				order = append(order, f.Node)
			}
			r.faults = append(r.faults, f)
		}
		out := make([]*region, len(order))
		for i, n := range order {
			out[i] = byNode[n]
		}

		return out, nil

	case GroupFFR:
		ffrIdx := make(map[int]int, len(nl.FFRs()))
		for i, ffr := range nl.FFRs() {
			for _, id := range ffr.Nodes {
				ffrIdx[id] = i
			}
		}
		byFFR := make(map[int]*region)
		var order []int
		for _, id := range faultIDs {
			f := nl.Fault(id)
			idx, ok := ffrIdx[f.Node]
			if !ok {
				continue
			}
			r, ok := byFFR[idx]
			if !ok {
				r = &region{mode: mode, root: nl.FFRs()[idx].Root}
				byFFR[idx] = r
				order = append(order, idx)
			}
			r.faults = append(r.faults, f)
		}
		out := make([]*region, len(order))
		for i, idx := range order {
			out[i] = byFFR[idx]
		}

		return out, nil

	case GroupMFFC:
		ffrIdx := make(map[int]int, len(nl.FFRs()))
		for i, ffr := range nl.FFRs() {
			for _, id := range ffr.Nodes {
				ffrIdx[id] = i
			}
		}
		mffcRootOf := make(map[int]int) // FFR root -> MFFC root
		byMFFC := make(map[int]*region)
		var order []int
		for _, id := range faultIDs {
			f := nl.Fault(id)
			idx, ok := ffrIdx[f.Node]
			if !ok {
				continue
			}
			ffrRoot := nl.FFRs()[idx].Root
			mroot, ok := mffcRootOf[ffrRoot]
			if !ok {
				mroot = nl.MFFC(ffrRoot).Root
				mffcRootOf[ffrRoot] = mroot
			}
			r, ok := byMFFC[mroot]
			if !ok {
				r = &region{mode: mode, root: mroot, ffrRootOf: make(map[int]int)}
				byMFFC[mroot] = r
				order = append(order, mroot)
			}
			r.faults = append(r.faults, f)
			r.ffrRootOf[f.ID] = ffrRoot
		}
		out := make([]*region, len(order))
		for i, mroot := range order {
			out[i] = byMFFC[mroot]
		}

		return out, nil

	default:
		return nil, ErrUnknownGroupMode
	}
}

// anyTransition reports whether any fault in faults needs two-frame
// modelling.
func anyTransition(faults []netlist.Fault) bool {
	for _, f := range faults {
		if f.Kind.IsTransition() {
			return true
		}
	}

	return false
}

// suffExtractor is the slice of an encoder buildJustifiedVector needs:
// BoolDiffEnc and MFFCEnc both read a satisfied model back into a
// boundary cube.
type suffExtractor interface {
	ExtractSufficientCondition(se *structenc.StructEngine) (assign.AssignList, error)
}

// buildJustifiedVector solves assumptions, extracts up to
// cfg.CubePerFault sufficient-condition cubes (re-solving under a
// blocking clause each time, per spec §5's CondGen2-style multi-cube
// extraction), merges each with base and with the region root's own good
// model value, justifies it, and packs the justified PPI assignments
// into a TestVector. Pinning the root's good value matters for faults
// behind an Xor/Xnor hop: the fault cube carries no side-input literal
// there (no controlling value exists), so without it the justified
// vector could leave that side input X and three-valued re-simulation
// would see X at the root instead of a definite difference. Returns
// (nil, nil) if no cube could be justified even though the fault is
// detected.
func buildJustifiedVector(se *structenc.StructEngine, nl *netlist.Netlist, root int, extractors []suffExtractor, base assign.AssignList, cubePerFault int, assumptions []satsolver.Lit, tm *Timings) (*tvec.TestVector, error) {
	blocking := append([]satsolver.Lit(nil), assumptions...)

	var best assign.AssignList
	for i := 0; i < cubePerFault; i++ {
		t0 := time.Now()
		res, err := se.Solve(blocking...)
		tm.SATSolve += time.Since(t0)
		if err != nil {
			return nil, err
		}
		if res != satsolver.Sat {
			break
		}

		merged := base
		if v := se.Val(root, 1); v != tvec.X {
			rootCond, err := assign.New(assign.Assignment{Node: root, Time: 1, Value: bitVal(v)})
			if err != nil {
				return nil, err
			}
			merged, err = merged.Merge(rootCond)
			if err != nil {
				return nil, err
			}
		}
		for _, ex := range extractors {
			suf, err := ex.ExtractSufficientCondition(se)
			if err != nil {
				return nil, err
			}
			merged, err = merged.Merge(suf)
			if err != nil {
				return nil, err
			}
		}

		t0 = time.Now()
		justified, err := se.Justify(merged)
		tm.Justify += time.Since(t0)
		if err != nil {
			return nil, err
		}
		if best == nil || len(justified) < len(best) {
			best = justified
		}

		if i+1 == cubePerFault {
			break
		}
		blockLits, err := se.ConvAssignList(merged)
		if err != nil {
			return nil, err
		}
		blockVar := satsolver.MkLit(se.Solver().NewVar(), false)
		negated := make([]satsolver.Lit, len(blockLits))
		for j, l := range blockLits {
			negated[j] = l.Not()
		}
		satsolver.AddOrGate(se.Solver(), blockVar, negated...)
		blocking = append(append([]satsolver.Lit(nil), assumptions...), blockVar)
	}

	if best == nil {
		return nil, nil
	}

	return assignToVector(nl, best)
}

func bitVal(b tvec.Bit) uint8 {
	if b == tvec.One {
		return 1
	}

	return 0
}

// assignToVector packs a justified AssignList (over PPIs, possibly both
// time frames) into a fresh TestVector.
func assignToVector(nl *netlist.Netlist, justified assign.AssignList) (*tvec.TestVector, error) {
	tv := tvec.New(nl)
	for _, a := range justified {
		bit := tvec.Zero
		if a.Value == 1 {
			bit = tvec.One
		}
		var err error
		if a.Time == 0 {
			err = tv.SetPrev(a.Node, bit)
		} else {
			err = tv.SetCur(a.Node, bit)
		}
		if err != nil {
			return nil, err
		}
	}

	return tv, nil
}
