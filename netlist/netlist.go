package netlist

import (
	"errors"
	"fmt"
)

// ErrNodeRange indicates a node id outside [0, NumNodes()).
var ErrNodeRange = errors.New("netlist: node id out of range")

// Netlist is the immutable, read-only circuit graph produced by Builder.
type Netlist struct {
	nodes []Node
	ppis  []int
	ppos  []int

	ffrs   []FFR
	ffrOf  []int // node id -> index into ffrs
	mffcs  []MFFC
	mffcOf []int // node id -> index into mffcs

	faults    []Fault
	repFaults []int // representative fault ids after equivalence collapsing
	classOf   []int // fault id -> representative fault id
}

// NumNodes returns the number of nodes, N, with valid ids in [0, N).
func (nl *Netlist) NumNodes() int { return len(nl.nodes) }

// Node returns the node with the given id. Panics if id is out of range,
// matching spec §7's "internal invariant violation" handling — callers
// are expected to only ever pass ids obtained from this Netlist.
func (nl *Netlist) Node(id int) Node { return nl.nodes[id] }

// PPIs returns the ids of all primary inputs and DFF outputs, ascending.
func (nl *Netlist) PPIs() []int { return nl.ppis }

// PPOs returns the ids of all primary outputs and DFF inputs, ascending.
func (nl *Netlist) PPOs() []int { return nl.ppos }

// PrimaryInputs returns the ids of true primary inputs only (excluding DFF
// outputs), ascending — the "PI" half of a TestVector's time-1 segment.
func (nl *Netlist) PrimaryInputs() []int {
	out := make([]int, 0, len(nl.ppis))
	for _, id := range nl.ppis {
		if nl.nodes[id].Kind == KindPPI {
			out = append(out, id)
		}
	}

	return out
}

func (nl *Netlist) checkID(id int) error {
	if id < 0 || id >= len(nl.nodes) {
		return fmt.Errorf("%w: %d", ErrNodeRange, id)
	}

	return nil
}

// FFRs returns every fanout-free region, in root-ascending order.
func (nl *Netlist) FFRs() []FFR { return nl.ffrs }

// FFR returns the fanout-free region containing node.
func (nl *Netlist) FFR(node int) FFR { return nl.ffrs[nl.ffrOf[node]] }

// MFFCs returns every maximal fanout-free cone, in root-ascending order.
func (nl *Netlist) MFFCs() []MFFC { return nl.mffcs }

// MFFC returns the maximal fanout-free cone containing node.
func (nl *Netlist) MFFC(node int) MFFC { return nl.mffcs[nl.mffcOf[node]] }

// FaultList returns every fault in the netlist, in id order.
func (nl *Netlist) FaultList() []Fault { return nl.faults }

// MaxFaultID returns the number of faults (ids are dense in [0, MaxFaultID())).
func (nl *Netlist) MaxFaultID() int { return len(nl.faults) }

// Fault returns the fault with the given id.
func (nl *Netlist) Fault(id int) Fault { return nl.faults[id] }

// RepFaultList returns the structurally-equivalence-reduced fault list: one
// representative fault id per equivalence class, ascending.
func (nl *Netlist) RepFaultList() []int { return nl.repFaults }

// FaultRepresentative returns the representative fault id of id's
// structural-equivalence class (itself, if id is already a representative).
func (nl *Netlist) FaultRepresentative(id int) int { return nl.classOf[id] }

// FaultsOfModel returns, out of RepFaultList, the faults matching the
// requested fault model (transition == false selects SA0/SA1, true
// selects the transition-delay kinds), per spec §6's model selection.
func (nl *Netlist) FaultsOfModel(transition bool) []int {
	out := make([]int, 0, len(nl.repFaults))
	for _, id := range nl.repFaults {
		if nl.faults[id].Kind.IsTransition() == transition {
			out = append(out, id)
		}
	}

	return out
}
