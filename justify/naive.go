package justify

import (
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Naive reads every PPI/DFFOut value directly out of the solver's model,
// ignoring the target assignment entirely (it is already satisfied by
// construction, since it came from the same model).
//
// A DFF output only ever contributes its own time-0 (scanned-in) value to
// a test vector; its time-1 reading is derived from the peer DFFIn's
// time-0 value by the sequential encoding and isn't an independent
// stimulus, so it's skipped here.
type Naive struct{}

// Justify implements structenc.Justifier.
func (Naive) Justify(se *structenc.StructEngine, _ assign.AssignList) (assign.AssignList, error) {
	nl := se.Netlist()
	var items []assign.Assignment
	for _, id := range nl.PPIs() {
		if nl.Node(id).Kind == netlist.KindDFFOut {
			if v := se.Val(id, 0); v != tvec.X {
				items = append(items, assign.Assignment{Node: id, Time: 0, Value: bitToU8(v)})
			}

			continue
		}
		if v := se.Val(id, 1); v != tvec.X {
			items = append(items, assign.Assignment{Node: id, Time: 1, Value: bitToU8(v)})
		}
		if v := se.Val(id, 0); v != tvec.X {
			items = append(items, assign.Assignment{Node: id, Time: 0, Value: bitToU8(v)})
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
