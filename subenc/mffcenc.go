package subenc

import (
	"sort"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// MFFCEnc models every FFR root inside one maximal fanout-free cone as an
// independently controllable fault site (spec §4.5's MFFC encoding): each
// FFR root r_i gets a control literal EVar[r_i], and fvar(r_i) is that
// node's ordinary gate-replicated faulty value XOR'd with EVar[r_i] — so
// asserting one EVar injects a local toggle at that root on top of
// whatever difference already propagated up to it from deeper roots in
// the same cone. The cone's own root's dvar (gvar XOR fvar) is PropVar:
// "does some enabled toggle reach the MFFC boundary."
type MFFCEnc struct {
	root int

	cone     []int
	ffrRoots []int

	fvar map[int]satsolver.Lit
	EVar map[int]satsolver.Lit

	dvar    satsolver.Lit
	PropVar satsolver.Lit

	built bool
}

// NewMFFCEnc returns an encoder over the maximal fanout-free cone whose
// root is root.
func NewMFFCEnc(root int) *MFFCEnc {
	return &MFFCEnc{root: root}
}

// Cone returns the MFFC's node ids, ascending.
func (e *MFFCEnc) Cone() []int { return e.cone }

// FFRRoots returns the ids of every FFR root inside the cone (each has an
// entry in EVar), ascending.
func (e *MFFCEnc) FFRRoots() []int { return e.ffrRoots }

// RootFVar returns the cone root's own faulty-value literal — true when
// some enabled EVar's toggle has propagated up to the cone boundary. Valid
// only after Init has run. Meant to be handed to a BoolDiffEnc's
// LinkRootFault so that encoder checks propagation from the MFFC boundary
// out to a primary output, rather than assuming the boundary itself always
// differs.
func (e *MFFCEnc) RootFVar() satsolver.Lit { return e.fvar[e.root] }

// Init computes the cone and its FFR roots and allocates fvar/EVar/dvar.
func (e *MFFCEnc) Init(se *structenc.StructEngine) {
	nl := se.Netlist()
	mffc := nl.MFFC(e.root)
	e.cone = mffc.Nodes

	roots := make([]int, 0, len(mffc.FFRs))
	for _, fi := range mffc.FFRs {
		roots = append(roots, nl.FFRs()[fi].Root)
	}
	sort.Ints(roots)
	e.ffrRoots = roots

	e.fvar = make(map[int]satsolver.Lit, len(e.cone))
	e.EVar = make(map[int]satsolver.Lit, len(roots))

	solver := se.Solver()
	for _, id := range e.cone {
		se.AddCurNode(id)
		e.fvar[id] = satsolver.MkLit(solver.NewVar(), false)
	}
	for _, r := range roots {
		e.EVar[r] = satsolver.MkLit(solver.NewVar(), false)
	}
	e.dvar = satsolver.MkLit(solver.NewVar(), false)
	e.PropVar = satsolver.MkLit(solver.NewVar(), false)
}

// MakeCNF emits the per-node fvar gate replication, the EVar injection at
// each FFR root, and the root's dvar/PropVar clauses. Built once per cone.
func (e *MFFCEnc) MakeCNF(se *structenc.StructEngine) {
	if e.built {
		return
	}
	e.built = true

	nl := se.Netlist()
	solver := se.Solver()

	gvar := func(id int) satsolver.Lit {
		lit, err := se.ConvToLiteral(assign.Assignment{Node: id, Time: 1, Value: 1})
		if err != nil {
			panic(err)
		}

		return lit
	}

	inCone := make(map[int]bool, len(e.cone))
	for _, id := range e.cone {
		inCone[id] = true
	}
	isFFRRoot := make(map[int]bool, len(e.ffrRoots))
	for _, r := range e.ffrRoots {
		isFFRRoot[r] = true
	}

	for _, id := range e.cone {
		n := nl.Node(id)

		target := e.fvar[id]
		if isFFRRoot[id] {
			target = satsolver.MkLit(solver.NewVar(), false) // natural (pre-injection) value
		}

		switch n.Kind {
		case netlist.KindLogic, netlist.KindPPO, netlist.KindDFFIn:
			ins := make([]satsolver.Lit, len(n.Fanins))
			for i, fi := range n.Fanins {
				if inCone[fi] {
					ins[i] = e.fvar[fi]
				} else {
					ins[i] = gvar(fi)
				}
			}
			if n.Kind == netlist.KindPPO || n.Kind == netlist.KindDFFIn {
				satsolver.AddBuffGate(solver, target, ins[0])
			} else {
				emitGateCNF(solver, n.Gate, target, ins)
			}
		default:
			// A reconverging PPI/DFFOut boundary inside the cone: its
			// natural value is just its own good value.
			satsolver.AddBuffGate(solver, target, gvar(id))
		}

		if isFFRRoot[id] {
			satsolver.AddXorGate(solver, e.fvar[id], target, e.EVar[id])
		}
	}

	satsolver.AddXorGate(solver, e.dvar, gvar(e.root), e.fvar[e.root])
	satsolver.AddBuffGate(solver, e.PropVar, e.dvar)
}

// ExtractSufficientCondition reads the current model and returns the
// cone's full input support pinned to its model values: every fanin of a
// cone node lying outside the cone, plus every PPI/DFFOut source sitting
// inside the cone itself (an MFFC, unlike a BoolDiffEnc forward cone, can
// absorb primary inputs). With that support fixed and the enabled
// fault's own FFR cube holding, every good and faulty value in the cone
// is determined, so the difference the model carried from the fault's
// FFR root up to the cone root reproduces under any completion of the
// remaining inputs — the same closure argument BoolDiffEnc's extractor
// makes for the cone root outward. Call only after a Sat Solve.
func (e *MFFCEnc) ExtractSufficientCondition(se *structenc.StructEngine) (assign.AssignList, error) {
	nl := se.Netlist()
	inCone := make(map[int]bool, len(e.cone))
	for _, id := range e.cone {
		inCone[id] = true
	}

	var items []assign.Assignment
	seen := make(map[int]bool)
	pin := func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		v := se.Val(id, 1)
		if v == tvec.X {
			return
		}
		items = append(items, assign.Assignment{Node: id, Time: 1, Value: bitToU8(v)})
	}
	for _, id := range e.cone {
		n := nl.Node(id)
		if n.Kind == netlist.KindPPI || n.Kind == netlist.KindDFFOut {
			pin(id)

			continue
		}
		for _, fi := range n.Fanins {
			if !inCone[fi] {
				pin(fi)
			}
		}
	}

	return assign.New(items...)
}
