package justify

import (
	"container/heap"
	"fmt"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Just2 is Just1's controlling-input rule run over a priority queue
// instead of a plain worklist: frontier nodes are popped lowest-fanout
// (least observable) first, on the idea that justifying the
// least-observable nets first leaves the most downstream freedom for
// whatever PPI assignment a later minimisation pass tries to reuse.
// Ties break on node id, keeping the result deterministic.
type Just2 struct{}

// Justify implements structenc.Justifier.
func (Just2) Justify(se *structenc.StructEngine, target assign.AssignList) (assign.AssignList, error) {
	nl := se.Netlist()
	visited := make(map[frontierItem]bool)

	pq := make(frontierPQ, 0, len(target))
	heap.Init(&pq)
	for _, a := range target {
		heap.Push(&pq, &frontierNode{a: a, fanout: len(nl.Node(a.Node).Fanouts())})
	}

	var result []assign.Assignment

	for pq.Len() > 0 {
		fn := heap.Pop(&pq).(*frontierNode)
		a := fn.a
		key := frontierItem{a.Node, int(a.Time)}
		if visited[key] {
			continue
		}
		visited[key] = true

		n := nl.Node(a.Node)
		switch n.Kind {
		case netlist.KindDFFOut:
			if a.Time == 1 {
				// Captured value: justify the peer DFFIn in the previous
				// frame instead of pinning an unrelated scan stimulus.
				push(&pq, nl, assign.Assignment{Node: n.Peer, Time: 0, Value: a.Value})

				continue
			}
			result = append(result, a)

			continue
		case netlist.KindPPI:
			result = append(result, a)

			continue
		case netlist.KindPPO, netlist.KindDFFIn:
			push(&pq, nl, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: a.Value})

			continue
		}

		switch n.Gate {
		case netlist.C0, netlist.C1:
			continue
		case netlist.Not:
			push(&pq, nl, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: 1 - a.Value})

			continue
		case netlist.Buff:
			push(&pq, nl, assign.Assignment{Node: n.Fanins[0], Time: a.Time, Value: a.Value})

			continue
		}

		reqIn, ok := singleControllingFanin(n.Gate, a.Value)
		if ok {
			fi, found := pickFaninWithValue(se, n.Fanins, int(a.Time), reqIn)
			if found {
				push(&pq, nl, assign.Assignment{Node: fi, Time: a.Time, Value: reqIn})

				continue
			}
		}
		for _, fi := range n.Fanins {
			v := se.Val(fi, int(a.Time))
			if v == tvec.X {
				return nil, fmt.Errorf("%w: node %d time %d", ErrUnassignedNode, fi, a.Time)
			}
			push(&pq, nl, assign.Assignment{Node: fi, Time: a.Time, Value: bitToU8(v)})
		}
	}

	return assign.New(result...)
}

func push(pq *frontierPQ, nl *netlist.Netlist, a assign.Assignment) {
	heap.Push(pq, &frontierNode{a: a, fanout: len(nl.Node(a.Node).Fanouts())})
}

type frontierNode struct {
	a      assign.Assignment
	fanout int
}

// frontierPQ is a min-heap of *frontierNode ordered by ascending fanout,
// ties broken by node id then time then value — the same Len/Less/Swap/
// Push/Pop shape as dijkstra's nodePQ.
type frontierPQ []*frontierNode

func (pq frontierPQ) Len() int { return len(pq) }

func (pq frontierPQ) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.fanout != b.fanout {
		return a.fanout < b.fanout
	}
	if a.a.Node != b.a.Node {
		return a.a.Node < b.a.Node
	}
	if a.a.Time != b.a.Time {
		return a.a.Time < b.a.Time
	}

	return a.a.Value < b.a.Value
}

func (pq frontierPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontierPQ) Push(x interface{}) { *pq = append(*pq, x.(*frontierNode)) }

func (pq *frontierPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
