package justify

import (
	"errors"
	"fmt"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// ErrUnassignedNode is returned when the backward walk reaches a node the
// last model left unassigned (X) — the target wasn't actually satisfied
// by the model this Justify call is reading from.
var ErrUnassignedNode = errors.New("justify: node has no model value")

// Just1 justifies a target assignment by walking backward from it,
// choosing a single controlling input wherever the required gate output
// has one, and stopping at every PPI/DFFOut it reaches. The frontier is a
// first-in first-out worklist seeded with the target in its sorted order,
// so repeated calls against the same model and target return the same
// result.
type Just1 struct{}

// Justify implements structenc.Justifier.
func (Just1) Justify(se *structenc.StructEngine, target assign.AssignList) (assign.AssignList, error) {
	return walkBackward(se, target)
}

type frontierItem struct {
	node, time int
}

func walkBackward(se *structenc.StructEngine, target assign.AssignList) (assign.AssignList, error) {
	nl := se.Netlist()
	visited := make(map[frontierItem]bool)
	queue := make([]assign.Assignment, 0, len(target))
	queue = append(queue, target...)

	var result []assign.Assignment

	for i := 0; i < len(queue); i++ {
		a := queue[i]
		key := frontierItem{a.Node, int(a.Time)}
		if visited[key] {
			continue
		}
		visited[key] = true

		n := nl.Node(a.Node)
		switch n.Kind {
		case netlist.KindDFFOut:
			if a.Time == 1 {
				// The current-frame reading is whatever the peer DFFIn
				// captured in the previous frame; justify it there.
				queue = append(queue, assign.Assignment{Node: n.Peer, Time: 0, Value: a.Value})

				continue
			}
			// The scanned-in time-0 value is an independent stimulus.
			result = append(result, a)

			continue
		case netlist.KindPPI:
			result = append(result, a)

			continue
		case netlist.KindPPO, netlist.KindDFFIn:
			queue = append(queue, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: a.Value})

			continue
		}

		// KindLogic.
		switch n.Gate {
		case netlist.C0, netlist.C1:
			continue
		case netlist.Not:
			queue = append(queue, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: 1 - a.Value})

			continue
		case netlist.Buff:
			queue = append(queue, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: a.Value})

			continue
		}

		reqIn, ok := singleControllingFanin(n.Gate, a.Value)
		if ok {
			fi, found := pickFaninWithValue(se, n.Fanins, int(a.Time), reqIn)
			if found {
				queue = append(queue, assign.Assignment{Node: fi, Time: a.Time, Value: reqIn})

				continue
			}
			// No fanin held the controlling value in this model (only
			// And/Nand/Or/Nor reach here, so the model does not give the
			// gate the required output) — fall through to pushing every
			// fanin.
		}
		for _, fi := range n.Fanins {
			v := se.Val(fi, int(a.Time))
			if v == tvec.X {
				return nil, fmt.Errorf("%w: node %d time %d", ErrUnassignedNode, fi, a.Time)
			}
			queue = append(queue, assign.Assignment{Node: fi, Time: a.Time, Value: bitToU8(v)})
		}
	}

	return assign.New(result...)
}

// singleControllingFanin returns the fanin value that alone forces gate's
// output to outputReq, and whether such a controlling path exists.
func singleControllingFanin(gate netlist.GateType, outputReq uint8) (uint8, bool) {
	switch gate {
	case netlist.And:
		if outputReq == 0 {
			return 0, true
		}
	case netlist.Nand:
		if outputReq == 1 {
			return 0, true
		}
	case netlist.Or:
		if outputReq == 1 {
			return 1, true
		}
	case netlist.Nor:
		if outputReq == 0 {
			return 1, true
		}
	}

	return 0, false
}

// pickFaninWithValue returns the lowest-index fanin whose model value at
// time equals want, for determinism.
func pickFaninWithValue(se *structenc.StructEngine, fanins []int, time int, want uint8) (int, bool) {
	for _, fi := range fanins {
		v := se.Val(fi, time)
		if v == tvec.X {
			continue
		}
		if bitToU8(v) == want {
			return fi, true
		}
	}

	return 0, false
}
