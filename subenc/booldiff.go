package subenc

import (
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// BoolDiffEnc is the fault-propagation difference encoder (spec §4.5): it
// allocates a faulty-value variable fvar and a difference variable dvar
// for every node between root and the observed outputs, and contributes
// the Boolean-difference CNF linking them to the good-circuit gvar chain.
//
// By default fvar(root) is forced to the complement of gvar(root) —
// BoolDiffEnc models an already-injected toggle at root, not the fault's
// excitation itself (FaultEnc/FFREnc own that half of the query). When
// root is itself the boundary of an MFFC, LinkRootFault overrides this
// boundary clause to read MFFCEnc's own (conditionally-injected) fvar
// instead, so BoolDiffEnc's job narrows to "does whatever MFFCEnc
// computed at root reach a primary output," rather than assuming root
// always differs.
type BoolDiffEnc struct {
	root    int
	outputs []int // observed PPO/DFFIn ids; nil means every reachable one

	cone       []int // TFO(root), restricted to nodes feeding an observed output
	propOutput []int // outputs actually inside cone, ascending

	fvar map[int]satsolver.Lit
	dvar map[int]satsolver.Lit

	propVarO map[int]satsolver.Lit
	propVar  satsolver.Lit

	linkedFVar func() satsolver.Lit

	built bool
}

// LinkRootFault ties fvar(root) to an externally computed faulty-value
// literal instead of the default "root always differs from good" boundary.
// get is only called during this encoder's own MakeCNF, so its source
// (e.g. an MFFCEnc's RootFVar) need only be registered with the owning
// StructEngine before this encoder — not resolved by the time LinkRootFault
// itself is called.
func (e *BoolDiffEnc) LinkRootFault(get func() satsolver.Lit) {
	e.linkedFVar = get
}

// NewBoolDiffEnc returns an encoder that propagates a toggle injected at
// root out to outputs (or every PPO/DFFIn root can reach, if outputs is
// nil).
func NewBoolDiffEnc(root int, outputs []int) *BoolDiffEnc {
	return &BoolDiffEnc{
		root:    root,
		outputs: outputs,
	}
}

// PropVar returns the overall "some observed output differs" literal,
// valid only after Init/MakeCNF have run (i.e. after the owning
// StructEngine's first Update()).
func (e *BoolDiffEnc) PropVar() satsolver.Lit { return e.propVar }

// Cone returns the TFO(root) nodes this encoder allocated fvar/dvar for.
func (e *BoolDiffEnc) Cone() []int { return e.cone }

// Init computes the propagation cone and requests gvar for every node in
// it, then allocates fvar/dvar/prop_var literals.
func (e *BoolDiffEnc) Init(se *structenc.StructEngine) {
	nl := se.Netlist()

	var reachablePO []int
	tfo := nl.TFO([]int{e.root}, func(id int) { reachablePO = append(reachablePO, id) })

	outs := e.outputs
	if outs == nil {
		outs = reachablePO
	}
	finCone := nl.TFI(outs, nil)
	finSet := make(map[int]bool, len(finCone))
	for _, id := range finCone {
		finSet[id] = true
	}

	for _, id := range tfo {
		if finSet[id] {
			e.cone = append(e.cone, id)
		}
	}

	outSet := make(map[int]bool, len(outs))
	for _, id := range outs {
		outSet[id] = true
	}
	for _, id := range e.cone {
		if outSet[id] {
			e.propOutput = append(e.propOutput, id)
		}
	}

	e.fvar = make(map[int]satsolver.Lit, len(e.cone))
	e.dvar = make(map[int]satsolver.Lit, len(e.cone))
	e.propVarO = make(map[int]satsolver.Lit, len(e.propOutput))

	solver := se.Solver()
	for _, id := range e.cone {
		se.AddCurNode(id)
		e.fvar[id] = satsolver.MkLit(solver.NewVar(), false)
		e.dvar[id] = satsolver.MkLit(solver.NewVar(), false)
	}
	for _, id := range e.propOutput {
		e.propVarO[id] = satsolver.MkLit(solver.NewVar(), false)
	}
	e.propVar = satsolver.MkLit(solver.NewVar(), false)
}

// MakeCNF emits the boundary, gate-replica and propagation-chain clauses.
// The cone is fixed at Init time, so the CNF is only emitted once; later
// Update() calls are no-ops for this encoder.
func (e *BoolDiffEnc) MakeCNF(se *structenc.StructEngine) {
	if e.built {
		return
	}
	e.built = true

	nl := se.Netlist()
	solver := se.Solver()

	if len(e.cone) == 0 {
		// root reaches no observed output at all; nothing can ever
		// propagate, so the overall literal is constant false.
		satsolver.AddConstGate(solver, e.propVar, false)

		return
	}

	gvar := func(id int) satsolver.Lit {
		lit, err := se.ConvToLiteral(assign.Assignment{Node: id, Time: 1, Value: 1})
		if err != nil {
			panic(err) // Init requested se.AddCurNode for every cone member.
		}

		return lit
	}

	inCone := make(map[int]bool, len(e.cone))
	for _, id := range e.cone {
		inCone[id] = true
	}
	isOutput := make(map[int]bool, len(e.propOutput))
	for _, id := range e.propOutput {
		isOutput[id] = true
	}

	if e.linkedFVar != nil {
		satsolver.AddBuffGate(solver, e.fvar[e.root], e.linkedFVar())
	} else {
		satsolver.AddNotGate(solver, e.fvar[e.root], gvar(e.root))
	}

	for _, id := range e.cone {
		if id == e.root {
			continue
		}
		n := nl.Node(id)
		if n.Kind != netlist.KindLogic && n.Kind != netlist.KindPPO && n.Kind != netlist.KindDFFIn {
			// A branch point fed from outside root's own fanin tree (can
			// only happen for a reconverged PPI/DFFOut); its faulty value
			// equals its good value, since nothing upstream re-derives it.
			satsolver.AddBuffGate(solver, e.fvar[id], gvar(id))

			continue
		}
		ins := make([]satsolver.Lit, len(n.Fanins))
		for i, fi := range n.Fanins {
			if inCone[fi] {
				ins[i] = e.fvar[fi]
			} else {
				ins[i] = gvar(fi)
			}
		}
		if n.Kind == netlist.KindPPO || n.Kind == netlist.KindDFFIn {
			satsolver.AddBuffGate(solver, e.fvar[id], ins[0])
		} else {
			emitGateCNF(solver, n.Gate, e.fvar[id], ins)
		}
	}

	for _, id := range e.cone {
		d, g, f := e.dvar[id], gvar(id), e.fvar[id]
		solver.AddClause(d.Not(), g.Not(), f.Not())
		solver.AddClause(d.Not(), g, f)

		if isOutput[id] {
			// Outputs get the converse direction too: no difference means
			// d must be false (a full iff, strengthening the boundary).
			solver.AddClause(d, g.Not(), f)
			solver.AddClause(d, g, f.Not())

			continue
		}

		var fanoutDs []satsolver.Lit
		for _, fo := range nl.Node(id).Fanouts() {
			if inCone[fo] {
				fanoutDs = append(fanoutDs, e.dvar[fo])
			}
		}
		clause := append([]satsolver.Lit{d.Not()}, fanoutDs...)
		solver.AddClause(clause...)
	}

	if len(e.propOutput) == 0 {
		satsolver.AddConstGate(solver, e.propVar, false)

		return
	}
	for _, id := range e.propOutput {
		satsolver.AddBuffGate(solver, e.propVarO[id], e.dvar[id])
	}
	orIns := make([]satsolver.Lit, len(e.propOutput))
	for i, id := range e.propOutput {
		orIns[i] = e.propVarO[id]
	}
	satsolver.AddOrGate(solver, e.propVar, orIns...)
}

// ExtractSufficientCondition reads the current model and returns the
// cone's boundary pinned to its model values: every fanin of a cone node
// that lies outside the cone itself. Together with the fault's own
// excitation/propagation cube (which fixes the root's good value) these
// assignments determine every good and faulty value inside the cone, so
// the output difference the model exhibits survives any completion of
// the remaining inputs. Call only after a Sat Solve against this
// encoder's propVar.
func (e *BoolDiffEnc) ExtractSufficientCondition(se *structenc.StructEngine) (assign.AssignList, error) {
	nl := se.Netlist()
	inCone := make(map[int]bool, len(e.cone))
	for _, id := range e.cone {
		inCone[id] = true
	}

	var items []assign.Assignment
	seen := make(map[int]bool)
	for _, id := range e.cone {
		if id == e.root {
			// The root's fanins are the fault's own business: its good
			// value is already fixed by the excitation cube.
			continue
		}
		for _, fi := range nl.Node(id).Fanins {
			if inCone[fi] || seen[fi] {
				continue
			}
			seen[fi] = true
			v := se.Val(fi, 1)
			if v == tvec.X {
				continue
			}
			items = append(items, assign.Assignment{Node: fi, Time: 1, Value: bitToU8(v)})
		}
	}

	return assign.New(items...)
}

func bitToU8(b tvec.Bit) uint8 {
	if b == tvec.One {
		return 1
	}

	return 0
}
