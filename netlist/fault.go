package netlist

import (
	"sort"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
)

// Fault is a single stuck-at or transition-delay fault site.
//
// Pin is -1 for an output fault, or the fanin index for an input-pin
// fault. ExcitationCondition and FFRPropagateCondition are precomputed,
// already-reduced-to-single-literals assignment cubes (spec §3).
// ExcitationCondition makes the fault effect visible at Node's output
// (the stuck/transition value plus, for an input-pin fault, the other
// pins of Node's gate at their non-controlling values);
// FFRPropagateCondition extends it with the side-input values carrying
// that effect on to the FFR root, so it always subsumes
// ExcitationCondition.
type Fault struct {
	ID   int
	Node int
	Pin  int
	Kind FaultKind

	ExcitationCondition   assign.AssignList
	FFRPropagateCondition assign.AssignList

	// ExcitationConflict / PropagateConflict mark a cube whose
	// construction required opposing values on one net (a reconvergent
	// fanin feeding two pins with incompatible requirements). The cube
	// itself is left nil and the fault can never be detected locally /
	// through its FFR; encoders publish a constant-false literal for it.
	ExcitationConflict bool
	PropagateConflict  bool
}

// ValueNode returns the node whose value determines the local activation
// of a fault at (node, pin): the node itself for an output fault, or the
// relevant fanin for an input fault (this model does not duplicate branch
// nets per pin).
func (nl *Netlist) ValueNode(node, pin int) int {
	if pin < 0 {
		return node
	}

	return nl.nodes[node].Fanins[pin]
}

// buildFaults generates the fault list (one SA0, SA1, TransitionRise and
// TransitionFall fault per site: the output and every input pin of every
// node other than a DFFOut) together with each fault's excitation and FFR-propagate conditions,
// then computes the structural-equivalence-reduced representative list.
func (nl *Netlist) buildFaults() {
	type site struct {
		node, pin int
	}
	var sites []site
	for _, n := range nl.nodes {
		if n.Kind == KindDFFOut {
			continue // DFFOut faults are equivalent to their peer DFFIn's output fault
		}
		sites = append(sites, site{n.ID, -1})
		for p := range n.Fanins {
			sites = append(sites, site{n.ID, p})
		}
	}

	kinds := []FaultKind{SA0, SA1, TransitionRise, TransitionFall}
	nl.faults = nl.faults[:0]
	for _, s := range sites {
		for _, k := range kinds {
			f := Fault{
				ID:   len(nl.faults),
				Node: s.node,
				Pin:  s.pin,
				Kind: k,
			}
			exc, excOK := nl.excitationCondition(s.node, s.pin, k)
			f.ExcitationCondition = exc
			f.ExcitationConflict = !excOK
			if excOK {
				prop, propOK := nl.ffrPropagateCondition(s.node, exc)
				f.FFRPropagateCondition = prop
				f.PropagateConflict = !propOK
			} else {
				f.PropagateConflict = true
			}
			nl.faults = append(nl.faults, f)
		}
	}

	nl.collapseEquivalent()
}

// excitationCondition returns the assignment cube making the fault effect
// at (node, pin, kind) visible at node's output: the good-circuit value
// the faulty value must differ from at the right frame(s), plus — for an
// input-pin fault — node's other pins at their non-controlling values so
// the pin toggle reaches the output. ok is false when those requirements
// contradict each other on a shared net (the fault is then structurally
// undetectable and the cube is nil).
func (nl *Netlist) excitationCondition(node, pin int, kind FaultKind) (cond assign.AssignList, ok bool) {
	vn := nl.ValueNode(node, pin)

	var items []assign.Assignment
	switch kind {
	case SA0:
		items = append(items, assign.Assignment{Node: vn, Time: 1, Value: 1})
	case SA1:
		items = append(items, assign.Assignment{Node: vn, Time: 1, Value: 0})
	case TransitionRise:
		items = append(items,
			assign.Assignment{Node: vn, Time: 0, Value: 0},
			assign.Assignment{Node: vn, Time: 1, Value: 1},
		)
	case TransitionFall:
		items = append(items,
			assign.Assignment{Node: vn, Time: 0, Value: 1},
			assign.Assignment{Node: vn, Time: 1, Value: 0},
		)
	default:
		return nil, false
	}

	if pin >= 0 {
		items = append(items, nl.nonControllingSideInputs(node, pin)...)
	}

	al, err := assign.New(items...)
	if err != nil {
		return nil, false
	}

	return al, true
}

// ffrPropagateCondition extends an excitation cube with the side-input
// literals carrying the effect at node's output through every
// single-fanout hop up to node's FFR root. The result subsumes
// excitation, so asserting it alone is the full local detection
// condition at the root. ok is false when a reconvergent fanin feeds two
// hops (or a hop and the excitation) with opposing requirements — such a
// fault can never propagate through its FFR and the cube is nil.
func (nl *Netlist) ffrPropagateCondition(node int, excitation assign.AssignList) (cond assign.AssignList, ok bool) {
	items := append([]assign.Assignment(nil), excitation...)

	root := nl.FFR(node).Root
	cur := node
	for cur != root {
		next := nl.nodes[cur].fanouts[0]
		idx := indexOf(nl.nodes[next].Fanins, cur)
		items = append(items, nl.nonControllingSideInputs(next, idx)...)
		cur = next
	}

	al, err := assign.New(items...)
	if err != nil {
		return nil, false
	}

	return al, true
}

// nonControllingSideInputs returns the literals pinning every fanin of
// node other than excludeIdx to the gate's non-controlling value, empty
// if the gate type has none (Buff/Not/Xor/Xnor/constants).
func (nl *Netlist) nonControllingSideInputs(node, excludeIdx int) []assign.Assignment {
	n := nl.nodes[node]
	val, ok := n.Gate.NonControllingValue()
	if !ok {
		return nil
	}
	var out []assign.Assignment
	for i, fi := range n.Fanins {
		if i == excludeIdx {
			continue
		}
		out = append(out, assign.Assignment{Node: fi, Time: 1, Value: val})
	}

	return out
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}

	return -1
}

// collapseEquivalent computes RepFaultList via the standard single-gate
// structural equivalence rules: for a gate whose output has a controlling
// value (AND/NAND/OR/NOR), the output fault forcing that controlling
// value is equivalent to every input fault forcing the same controlling
// value at that input; Buff/Not collapse output faults with the sole
// input fault of matching/opposite polarity. The lowest fault id in each
// class is its representative.
func (nl *Netlist) collapseEquivalent() {
	parent := make([]int, len(nl.faults))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}

		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	byNode := make(map[int][]int) // node id -> fault ids on that node
	for _, f := range nl.faults {
		byNode[f.Node] = append(byNode[f.Node], f.ID)
	}
	findFault := func(node, pin int, kind FaultKind) (int, bool) {
		for _, fid := range byNode[node] {
			f := nl.faults[fid]
			if f.Pin == pin && f.Kind == kind {
				return fid, true
			}
		}

		return -1, false
	}

	for _, n := range nl.nodes {
		outFaults := byNode[n.ID]
		_ = outFaults
		switch n.Gate {
		case And, Nand:
			ctrlOutKind, ctrlInKind := SA0, SA0
			if n.Gate == Nand {
				ctrlOutKind = SA1
			}
			outID, ok := findFault(n.ID, -1, ctrlOutKind)
			if !ok {
				continue
			}
			for p := range n.Fanins {
				if inID, ok := findFault(n.ID, p, ctrlInKind); ok {
					union(outID, inID)
				}
			}
		case Or, Nor:
			ctrlOutKind, ctrlInKind := SA1, SA1
			if n.Gate == Nor {
				ctrlOutKind = SA0
			}
			outID, ok := findFault(n.ID, -1, ctrlOutKind)
			if !ok {
				continue
			}
			for p := range n.Fanins {
				if inID, ok := findFault(n.ID, p, ctrlInKind); ok {
					union(outID, inID)
				}
			}
		case Buff:
			for _, k := range []FaultKind{SA0, SA1} {
				outID, ok1 := findFault(n.ID, -1, k)
				inID, ok2 := findFault(n.ID, 0, k)
				if ok1 && ok2 {
					union(outID, inID)
				}
			}
		case Not:
			pairs := [][2]FaultKind{{SA0, SA1}, {SA1, SA0}}
			for _, pr := range pairs {
				outID, ok1 := findFault(n.ID, -1, pr[0])
				inID, ok2 := findFault(n.ID, 0, pr[1])
				if ok1 && ok2 {
					union(outID, inID)
				}
			}
		}
	}

	classes := make(map[int]bool)
	for i := range nl.faults {
		classes[find(i)] = true
	}
	rep := make([]int, 0, len(classes))
	for r := range classes {
		rep = append(rep, r)
	}
	sort.Ints(rep)
	nl.repFaults = rep

	nl.classOf = make([]int, len(nl.faults))
	for i := range nl.faults {
		nl.classOf[i] = find(i)
	}
}
