package netlist

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by Builder and Netlist construction.
var (
	// ErrBadFanin indicates a fanin id is not a strictly lower-numbered,
	// already-added node — violating the topological-numbering invariant.
	ErrBadFanin = errors.New("netlist: fanin must reference an already-added, lower-numbered node")

	// ErrBadArity indicates a gate was given an input count it cannot accept.
	ErrBadArity = errors.New("netlist: bad fanin count for gate type")
)

// Builder incrementally assembles a Netlist. Nodes must be added in
// topological order: every fanin must already exist. Builder is not
// thread-safe; build a Netlist on a single goroutine, then share the
// immutable result freely.
type Builder struct {
	nodes []Node
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddPPI appends a new primary input and returns its id.
func (b *Builder) AddPPI() int {
	return b.add(Node{Kind: KindPPI, Peer: -1})
}

// AddConst appends a constant-0 or constant-1 source node and returns its id.
// gate must be C0 or C1.
func (b *Builder) AddConst(gate GateType) int {
	if gate != C0 && gate != C1 {
		b.fail(fmt.Errorf("%w: AddConst requires C0/C1, got %s", ErrBadArity, gate))

		return -1
	}

	return b.add(Node{Kind: KindLogic, Gate: gate, Peer: -1})
}

// AddLogic appends a combinational gate over the given fanins (which must
// already exist) and returns its id.
func (b *Builder) AddLogic(gate GateType, fanins ...int) int {
	if err := b.checkArity(gate, len(fanins)); err != nil {
		b.fail(err)

		return -1
	}
	if err := b.checkFanins(fanins); err != nil {
		b.fail(err)

		return -1
	}

	return b.add(Node{Kind: KindLogic, Gate: gate, Fanins: append([]int(nil), fanins...), Peer: -1})
}

// AddPPO appends a primary output observing fanin and returns its id.
func (b *Builder) AddPPO(fanin int) int {
	if err := b.checkFanins([]int{fanin}); err != nil {
		b.fail(err)

		return -1
	}

	return b.add(Node{Kind: KindPPO, Fanins: []int{fanin}, Peer: -1})
}

// AddDFF appends a scan flip-flop: a DFFIn (sampling d) and a DFFOut (the
// registered value, visible to the current-time combinational logic from
// the *previous* frame). Returns (dffInID, dffOutID).
func (b *Builder) AddDFF(d int) (int, int) {
	if err := b.checkFanins([]int{d}); err != nil {
		b.fail(err)

		return -1, -1
	}
	inID := b.add(Node{Kind: KindDFFIn, Fanins: []int{d}, Peer: -1})
	outID := b.add(Node{Kind: KindDFFOut, Peer: -1})
	b.nodes[inID].Peer = outID
	b.nodes[outID].Peer = inID

	return inID, outID
}

// AddDFFOut appends a standalone scan flip-flop output: a free node (no
// fanins, like a PPI) whose peer DFFIn is wired in later via AddDFFIn.
// Use this pair instead of AddDFF when the flop's data input is
// downstream combinational logic that reads this same flop's output —
// the DFF back-edge spec §9 calls out: DFFOut must get its (low) id
// before that logic exists, so AddDFF's "input first" order cannot
// express it.
func (b *Builder) AddDFFOut() int {
	return b.add(Node{Kind: KindDFFOut, Peer: -1})
}

// AddDFFIn appends the data-sampling half of a scan flip-flop, wiring it
// to the DFFOut produced by an earlier AddDFFOut call. Fails if peerOut
// is not a DFFOut node with no DFFIn wired yet.
func (b *Builder) AddDFFIn(d, peerOut int) int {
	if err := b.checkFanins([]int{d}); err != nil {
		b.fail(err)

		return -1
	}
	if peerOut < 0 || peerOut >= len(b.nodes) || b.nodes[peerOut].Kind != KindDFFOut || b.nodes[peerOut].Peer != -1 {
		b.fail(fmt.Errorf("%w: peerOut %d is not an unwired DFFOut node", ErrBadFanin, peerOut))

		return -1
	}
	inID := b.add(Node{Kind: KindDFFIn, Fanins: []int{d}, Peer: peerOut})
	b.nodes[peerOut].Peer = inID

	return inID
}

func (b *Builder) checkArity(gate GateType, n int) error {
	switch gate {
	case C0, C1:
		if n != 0 {
			return fmt.Errorf("%w: %s takes no fanins, got %d", ErrBadArity, gate, n)
		}
	case Buff, Not:
		if n != 1 {
			return fmt.Errorf("%w: %s takes exactly 1 fanin, got %d", ErrBadArity, gate, n)
		}
	default:
		if n < 2 {
			return fmt.Errorf("%w: %s takes at least 2 fanins, got %d", ErrBadArity, gate, n)
		}
	}

	return nil
}

func (b *Builder) checkFanins(fanins []int) error {
	for _, f := range fanins {
		if f < 0 || f >= len(b.nodes) {
			return fmt.Errorf("%w: fanin %d (have %d nodes)", ErrBadFanin, f, len(b.nodes))
		}
	}

	return nil
}

func (b *Builder) add(n Node) int {
	if b.err != nil {
		return -1
	}
	n.ID = len(b.nodes)
	b.nodes = append(b.nodes, n)

	return n.ID
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build finalises the Netlist: computes fanouts, FFR/MFFC decomposition,
// and the fault list with structural-equivalence collapsing. Returns the
// first error recorded by any Add* call, if any.
func (b *Builder) Build() (*Netlist, error) {
	if b.err != nil {
		return nil, b.err
	}

	nl := &Netlist{nodes: b.nodes}
	nl.wireFanouts()
	nl.collectPPIsPPOs()
	if err := nl.buildFFRs(); err != nil {
		return nil, err
	}
	nl.buildMFFCs()
	nl.buildFaults()

	return nl, nil
}

func (nl *Netlist) wireFanouts() {
	for i := range nl.nodes {
		nl.nodes[i].fanouts = nil
	}
	for _, n := range nl.nodes {
		for _, f := range n.Fanins {
			nl.nodes[f].fanouts = append(nl.nodes[f].fanouts, n.ID)
		}
	}
}

func (nl *Netlist) collectPPIsPPOs() {
	nl.ppis = nl.ppis[:0]
	nl.ppos = nl.ppos[:0]
	for _, n := range nl.nodes {
		if n.IsPPI() {
			nl.ppis = append(nl.ppis, n.ID)
		}
		if n.IsPPO() {
			nl.ppos = append(nl.ppos, n.ID)
		}
	}
}
