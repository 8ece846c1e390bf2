package structenc

import (
	"fmt"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// StructEngine lazily encodes the good circuit, on demand, over one or two
// time frames, sharing its CNF across every SubEnc/query attached to it.
// Not safe for concurrent use — one StructEngine per worker thread.
type StructEngine struct {
	nl     *netlist.Netlist
	solver satsolver.Solver

	sequential bool

	gvar []satsolver.Lit // current-frame literal per node, LitUndef if unencoded
	hvar []satsolver.Lit // previous-frame literal per node, LitUndef if unencoded

	pendingCur  map[int]bool
	pendingPrev map[int]bool

	dffLinked map[int]bool // DFFOut ids whose gvar==hvar(peer) buffer clause has been added

	subencs    []SubEnc
	subencInit map[SubEnc]bool

	justifier Justifier

	state State
}

// New returns a StructEngine over nl using solver for its CNF. sequential
// enables previous-frame (hvar) encoding for transition-delay/scan use;
// combinational-only callers should pass false.
func New(nl *netlist.Netlist, solver satsolver.Solver, sequential bool) *StructEngine {
	n := nl.NumNodes()
	se := &StructEngine{
		nl:          nl,
		solver:      solver,
		sequential:  sequential,
		gvar:        make([]satsolver.Lit, n),
		hvar:        make([]satsolver.Lit, n),
		pendingCur:  make(map[int]bool),
		pendingPrev: make(map[int]bool),
		dffLinked:   make(map[int]bool),
		subencInit:  make(map[SubEnc]bool),
	}
	for i := range se.gvar {
		se.gvar[i] = satsolver.LitUndef
		se.hvar[i] = satsolver.LitUndef
	}

	return se
}

// Solver returns the underlying SAT solver, for SubEncs that need to
// allocate their own auxiliary variables and clauses.
func (se *StructEngine) Solver() satsolver.Solver { return se.solver }

// Netlist returns the bound netlist.
func (se *StructEngine) Netlist() *netlist.Netlist { return se.nl }

// AddCurNode marks n as requiring CNF in the current frame.
func (se *StructEngine) AddCurNode(n int) {
	if se.gvar[n] != satsolver.LitUndef {
		return
	}
	se.pendingCur[n] = true
	se.state = Dirty
}

// AddPrevNode marks n as requiring CNF in the previous frame (sequential
// mode only; a no-op request in combinational mode still records it so a
// later sequential promotion would pick it up, but Update only consumes it
// when se.sequential is true).
func (se *StructEngine) AddPrevNode(n int) {
	if se.hvar[n] != satsolver.LitUndef {
		return
	}
	se.pendingPrev[n] = true
	se.state = Dirty
}

// AddSubEnc registers a SubEnc; its Init is deferred to the first Update()
// call after registration.
func (se *StructEngine) AddSubEnc(enc SubEnc) {
	se.subencs = append(se.subencs, enc)
	se.state = Dirty
}

// SetJustifier attaches the Justifier used by Justify.
func (se *StructEngine) SetJustifier(j Justifier) { se.justifier = j }

// Update performs the lazy structural-CNF extension described in spec
// §4.4 steps (a)-(f), a no-op if the engine is already Stable. SubEnc
// Init calls request more nodes, so the structural pass repeats until no
// pending request remains; only then does any MakeCNF run, so every
// literal a sub-encoder converts already exists.
func (se *StructEngine) Update() {
	if se.state != Dirty {
		return
	}
	se.state = Updating

	for {
		for _, sub := range se.subencs {
			if !se.subencInit[sub] {
				sub.Init(se)
				se.subencInit[sub] = true
			}
		}

		if len(se.pendingCur) == 0 && (!se.sequential || len(se.pendingPrev) == 0) {
			break
		}

		curSeeds := keysOf(se.pendingCur)
		curCone := se.nl.TFI(curSeeds, func(dffout int) {
			if !se.sequential {
				return
			}
			peer := se.nl.Node(dffout).Peer
			if se.hvar[peer] == satsolver.LitUndef {
				se.pendingPrev[peer] = true
			}
		})

		var prevCone []int
		if se.sequential {
			prevSeeds := keysOf(se.pendingPrev)
			prevCone = se.nl.TFI(prevSeeds, nil)
			se.pendingPrev = make(map[int]bool)
		}
		se.pendingCur = make(map[int]bool)

		for _, id := range prevCone {
			se.encodeNode(id, true)
		}
		for _, id := range curCone {
			se.encodeNode(id, false)
		}

		for _, id := range curCone {
			n := se.nl.Node(id)
			if n.Kind != netlist.KindDFFOut || se.dffLinked[id] {
				continue
			}
			peerHvar := se.hvar[n.Peer]
			if peerHvar == satsolver.LitUndef {
				continue
			}
			satsolver.AddBuffGate(se.solver, se.gvar[id], peerHvar)
			se.dffLinked[id] = true
		}
	}

	for _, sub := range se.subencs {
		sub.MakeCNF(se)
	}

	se.state = Stable
}

// encodeNode allocates a literal for (id, prevFrame) if not already
// present and emits the node's Tseitin CNF; a no-op if already encoded.
func (se *StructEngine) encodeNode(id int, prevFrame bool) {
	vars := se.gvar
	if prevFrame {
		vars = se.hvar
	}
	if vars[id] != satsolver.LitUndef {
		return
	}

	v := se.solver.NewVar()
	lit := satsolver.MkLit(v, false)
	vars[id] = lit

	n := se.nl.Node(id)
	switch n.Kind {
	case netlist.KindPPI, netlist.KindDFFOut:
		// Free variable: PPI always, DFFOut in the previous frame (no
		// "frame -1" to constrain it from); a current-frame DFFOut is
		// linked to its peer's hvar separately, once both exist.
	case netlist.KindLogic:
		ins := make([]satsolver.Lit, len(n.Fanins))
		for i, fi := range n.Fanins {
			ins[i] = vars[fi]
		}
		emitGateCNF(se.solver, n.Gate, lit, ins)
	case netlist.KindPPO, netlist.KindDFFIn:
		satsolver.AddBuffGate(se.solver, lit, vars[n.Fanins[0]])
	}
}

func emitGateCNF(s satsolver.Solver, gate netlist.GateType, out satsolver.Lit, ins []satsolver.Lit) {
	switch gate {
	case netlist.Buff:
		satsolver.AddBuffGate(s, out, ins[0])
	case netlist.Not:
		satsolver.AddNotGate(s, out, ins[0])
	case netlist.And:
		satsolver.AddAndGate(s, out, ins...)
	case netlist.Nand:
		satsolver.AddNandGate(s, out, ins...)
	case netlist.Or:
		satsolver.AddOrGate(s, out, ins...)
	case netlist.Nor:
		satsolver.AddNorGate(s, out, ins...)
	case netlist.Xor:
		satsolver.AddXorGate(s, out, ins...)
	case netlist.Xnor:
		satsolver.AddXnorGate(s, out, ins...)
	case netlist.C0:
		satsolver.AddConstGate(s, out, false)
	case netlist.C1:
		satsolver.AddConstGate(s, out, true)
	}
}

// ConvToLiteral looks up the literal for a's (node, time), inverted if
// a.Value == 0. Returns ErrNotRegistered if that node/time has no literal
// yet (Update has not been called, or the node was never marked).
func (se *StructEngine) ConvToLiteral(a assign.Assignment) (satsolver.Lit, error) {
	vars := se.gvar
	if a.Time == 0 {
		vars = se.hvar
	}
	lit := vars[a.Node]
	if lit == satsolver.LitUndef {
		return satsolver.LitUndef, fmt.Errorf("%w: node %d time %d", ErrNotRegistered, a.Node, a.Time)
	}
	if a.Value == 0 {
		return lit.Not(), nil
	}

	return lit, nil
}

// ConvAssignList converts every assignment in al to a literal, failing on
// the first unregistered one.
func (se *StructEngine) ConvAssignList(al assign.AssignList) ([]satsolver.Lit, error) {
	out := make([]satsolver.Lit, 0, len(al))
	for _, a := range al {
		lit, err := se.ConvToLiteral(a)
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}

	return out, nil
}

// Solve runs Update then delegates to the solver with the given
// assumption literals.
func (se *StructEngine) Solve(assumptions ...satsolver.Lit) (satsolver.Result, error) {
	se.Update()

	return se.solver.Solve(assumptions...)
}

// Val reads node's value at the given time (0 or 1) from the last solve's
// model, X if unencoded or unassigned.
func (se *StructEngine) Val(node, time int) tvec.Bit {
	vars := se.gvar
	if time == 0 {
		vars = se.hvar
	}
	lit := vars[node]
	if lit == satsolver.LitUndef {
		return tvec.X
	}
	v3 := se.solver.Value(lit.Var())
	isNeg := lit.Sign()
	switch v3 {
	case satsolver.True:
		if isNeg {
			return tvec.Zero
		}

		return tvec.One
	case satsolver.False:
		if isNeg {
			return tvec.One
		}

		return tvec.Zero
	default:
		return tvec.X
	}
}

// Justify delegates to the attached Justifier.
func (se *StructEngine) Justify(a assign.AssignList) (assign.AssignList, error) {
	if se.justifier == nil {
		return nil, ErrNoJustifier
	}

	return se.justifier.Justify(se, a)
}

func keysOf(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
