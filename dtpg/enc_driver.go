package dtpg

import (
	"time"

	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/subenc"
)

// EncDriver is the "enc" counterpart of EngineDriver (spec §4.7's
// driver_type): it builds a fresh StructEngine and encoders for every
// fault individually instead of sharing one across the whole region.
// Slower than EngineDriver on regions with many faults but behaviourally
// identical, and useful as a cross-check of EngineDriver's incremental
// reuse.
type EncDriver struct {
	nl   *netlist.Netlist
	cfg  *Config
	r    *region
	stat satsolver.Stats
	tm   Timings
}

// newEncDriver wraps r; no CNF is built until the first FaultOp call.
func newEncDriver(nl *netlist.Netlist, cfg *Config, r *region) (*EncDriver, error) {
	return &EncDriver{nl: nl, cfg: cfg, r: r}, nil
}

// FaultOp implements Driver. It builds a single-fault EngineDriver scoped
// to r's grouping mode, runs it once, and discards it.
func (d *EncDriver) FaultOp(faultID int, cb Callbacks) (Status, error) {
	var f netlist.Fault
	found := false
	for _, cand := range d.r.faults {
		if cand.ID == faultID {
			f = cand
			found = true

			break
		}
	}
	if !found {
		return Aborted, structenc.ErrNotRegistered
	}

	solver := d.cfg.NewSolver()
	attachLogger(solver, d.cfg.Logger)
	se := structenc.New(d.nl, solver, anyTransition(d.r.faults))
	justifier, err := newJustifier(d.cfg.Justifier)
	if err != nil {
		return Aborted, err
	}
	se.SetJustifier(justifier)

	single := &region{mode: d.r.mode, root: d.r.root, faults: []netlist.Fault{f}}
	if d.r.mode == GroupMFFC {
		single.ffrRootOf = map[int]int{f.ID: d.r.ffrRootOf[f.ID]}
	}

	ed := &EngineDriver{nl: d.nl, se: se, cfg: d.cfg, r: single}
	switch single.mode {
	case GroupNode:
		ed.bde = subenc.NewBoolDiffEnc(single.root, nil)
		se.AddSubEnc(ed.bde)
	case GroupFFR:
		ed.bde = subenc.NewBoolDiffEnc(single.root, nil)
		se.AddSubEnc(ed.bde)
		ed.fe = subenc.NewFFREnc(single.faults)
		se.AddSubEnc(ed.fe)
	case GroupMFFC:
		ed.mffc = subenc.NewMFFCEnc(single.root)
		se.AddSubEnc(ed.mffc)
		ed.bde = subenc.NewBoolDiffEnc(single.root, nil)
		ed.bde.LinkRootFault(ed.mffc.RootFVar)
		se.AddSubEnc(ed.bde)
		ed.fe = subenc.NewFFREnc(single.faults)
		se.AddSubEnc(ed.fe)
	default:
		return Aborted, ErrUnknownGroupMode
	}
	t0 := time.Now()
	se.Update()
	d.tm.CNFBuild += time.Since(t0)

	status, err := ed.FaultOp(faultID, cb)
	d.stat = addStats(d.stat, se.Solver().Stats())
	d.tm.add(ed.tm)

	return status, err
}

// SatStats implements Driver.
func (d *EncDriver) SatStats() satsolver.Stats { return d.stat }

// Timings implements Driver.
func (d *EncDriver) Timings() Timings { return d.tm }

// addStats returns the lane-wise sum of a and b.
func addStats(a, b satsolver.Stats) satsolver.Stats {
	return satsolver.Stats{
		Decisions:    a.Decisions + b.Decisions,
		Propagations: a.Propagations + b.Propagations,
		Conflicts:    a.Conflicts + b.Conflicts,
		Restarts:     a.Restarts + b.Restarts,
	}
}
