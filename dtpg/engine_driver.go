package dtpg

import (
	"time"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/subenc"
)

// EngineDriver builds one StructEngine per region and reuses its CNF
// across every fault the region contains — only the assumption literals
// differ between faults, per spec §4.7's "per-region incremental reuse".
type EngineDriver struct {
	nl  *netlist.Netlist
	se  *structenc.StructEngine
	cfg *Config
	r   *region

	bde  *subenc.BoolDiffEnc // every mode
	fe   *subenc.FFREnc      // ffr/mffc mode
	fve  *subenc.FaultEnc    // node mode, rebuilt per fault
	mffc *subenc.MFFCEnc     // mffc mode

	tm Timings
}

// newEngineDriver builds the shared StructEngine for r according to
// cfg.GroupMode.
func newEngineDriver(nl *netlist.Netlist, cfg *Config, r *region) (*EngineDriver, error) {
	solver := cfg.NewSolver()
	attachLogger(solver, cfg.Logger)
	se := structenc.New(nl, solver, anyTransition(r.faults))
	justifier, err := newJustifier(cfg.Justifier)
	if err != nil {
		return nil, err
	}
	se.SetJustifier(justifier)
	d := &EngineDriver{nl: nl, se: se, cfg: cfg, r: r}

	switch r.mode {
	case GroupNode:
		d.bde = subenc.NewBoolDiffEnc(r.root, nil)
		se.AddSubEnc(d.bde)
	case GroupFFR:
		d.bde = subenc.NewBoolDiffEnc(r.root, nil)
		se.AddSubEnc(d.bde)
		d.fe = subenc.NewFFREnc(r.faults)
		se.AddSubEnc(d.fe)
	case GroupMFFC:
		d.mffc = subenc.NewMFFCEnc(r.root)
		se.AddSubEnc(d.mffc)
		// A cone-internal EVar toggle reaching the MFFC's own boundary
		// node (d.mffc.PropVar) only proves divergence there — it says
		// nothing about whether that divergence reaches an actual primary
		// output. Chain a BoolDiffEnc from the MFFC root outward, with its
		// boundary tied to MFFCEnc's own (conditionally-toggled) root
		// fvar, to confirm the rest of the path (spec §4.5/§4.7).
		d.bde = subenc.NewBoolDiffEnc(r.root, nil)
		d.bde.LinkRootFault(d.mffc.RootFVar)
		se.AddSubEnc(d.bde)
		d.fe = subenc.NewFFREnc(r.faults)
		se.AddSubEnc(d.fe)
	default:
		return nil, ErrUnknownGroupMode
	}
	t0 := time.Now()
	se.Update()
	d.tm.CNFBuild += time.Since(t0)

	return d, nil
}

// assumptionsFor builds the assumption literal set of spec §4.7 step 1
// for a single fault.
func (d *EngineDriver) assumptionsFor(f netlist.Fault) ([]satsolver.Lit, assign.AssignList, error) {
	switch d.r.mode {
	case GroupNode:
		fve := subenc.NewFaultEnc(f)
		d.se.AddSubEnc(fve)
		t0 := time.Now()
		d.se.Update()
		d.tm.CNFBuild += time.Since(t0)
		d.fve = fve

		// The BoolDiffEnc is rooted at the fault's own node here, so the
		// excitation cube (which already carries the effect to that
		// node's output) is the whole local condition to justify; the
		// FFR-path side inputs belong to the ffr/mffc modes.
		return []satsolver.Lit{d.bde.PropVar(), fve.ExciteVar}, f.ExcitationCondition, nil

	case GroupFFR:
		pv, ok := d.fe.PropVar[f.ID]
		if !ok {
			return nil, nil, structenc.ErrNotRegistered
		}

		return []satsolver.Lit{d.bde.PropVar(), pv}, f.FFRPropagateCondition, nil

	case GroupMFFC:
		pv, ok := d.fe.PropVar[f.ID]
		if !ok {
			return nil, nil, structenc.ErrNotRegistered
		}
		ownRoot := d.r.ffrRootOf[f.ID]
		lits := []satsolver.Lit{d.mffc.PropVar, d.bde.PropVar(), pv}
		for root, evar := range d.mffc.EVar {
			if root == ownRoot {
				lits = append(lits, evar)
			} else {
				lits = append(lits, evar.Not())
			}
		}

		return lits, f.FFRPropagateCondition, nil

	default:
		return nil, nil, ErrUnknownGroupMode
	}
}

// FaultOp implements Driver.
func (d *EngineDriver) FaultOp(faultID int, cb Callbacks) (Status, error) {
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

	assumptions, base, err := d.assumptionsFor(f)
	if err != nil {
		return Aborted, err
	}

	t0 := time.Now()
	res, err := d.se.Solve(assumptions...)
	d.tm.SATSolve += time.Since(t0)
	if err != nil {
		return Aborted, err
	}

	switch res {
	case satsolver.Sat:
		// Every group mode chains a BoolDiffEnc from its region root out
		// to a primary output (GroupMFFC's is linked to MFFCEnc's own
		// root fvar; see newEngineDriver), so the shared boundary
		// extraction applies uniformly; mffc mode additionally pins the
		// MFFC's own input boundary, covering the stretch between the
		// fault's FFR root and the cone root.
		extractors := []suffExtractor{d.bde}
		if d.mffc != nil {
			extractors = append(extractors, d.mffc)
		}
		tv, err := buildJustifiedVector(d.se, d.nl, d.r.root, extractors, base, d.cfg.CubePerFault, assumptions, &d.tm)
		if err != nil {
			return Aborted, err
		}
		if tv == nil {
			if cb.OnAbort != nil {
				cb.OnAbort(faultID)
			}

			return Aborted, nil
		}
		if cb.OnDetect != nil {
			cb.OnDetect(faultID, tv)
		}

		return Detected, nil

	case satsolver.Unsat:
		if cb.OnUntest != nil {
			cb.OnUntest(faultID)
		}

		return Untestable, nil

	default:
		if cb.OnAbort != nil {
			cb.OnAbort(faultID)
		}

		return Aborted, nil
	}
}

// SatStats implements Driver.
func (d *EngineDriver) SatStats() satsolver.Stats { return d.se.Solver().Stats() }

// Timings implements Driver.
func (d *EngineDriver) Timings() Timings { return d.tm }
