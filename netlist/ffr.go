package netlist

import "sort"

// buildFFRs partitions every node into exactly one FFR. A node is an FFR
// root iff it is a PPO/DFFIn or its fanout count is not exactly 1;
// everything else belongs to the same FFR as its sole fanout (its single
// downstream consumer), so processing nodes from the highest id down
// always resolves a node's fanout before the node itself — the fanout
// necessarily has a strictly higher id (spec §3's topological-numbering
// invariant).
func (nl *Netlist) buildFFRs() error {
	n := len(nl.nodes)
	rootOf := make([]int, n)
	for id := n - 1; id >= 0; id-- {
		node := nl.nodes[id]
		if isFFRRoot(node) {
			rootOf[id] = id

			continue
		}
		rootOf[id] = rootOf[node.fanouts[0]]
	}

	byRoot := make(map[int][]int)
	for id := 0; id < n; id++ {
		r := rootOf[id]
		byRoot[r] = append(byRoot[r], id)
	}

	roots := make([]int, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	nl.ffrs = make([]FFR, len(roots))
	nl.ffrOf = make([]int, n)
	for idx, r := range roots {
		nodes := byRoot[r]
		sort.Ints(nodes)
		nl.ffrs[idx] = FFR{Root: r, Nodes: nodes}
		for _, id := range nodes {
			nl.ffrOf[id] = idx
		}
	}

	return nil
}

func isFFRRoot(n Node) bool {
	return n.IsPPO() || len(n.fanouts) != 1
}

// buildMFFCs partitions every FFR into exactly one MFFC. Spec §3 defines
// an MFFC as "the union of FFRs dominated by a node" — on the FFR DAG
// (root r has an edge to the FFR root reached by each of r's node-level
// fanouts), that is exactly post-dominance: FFR i's MFFC root is the
// nearest FFR that every path from i to a primary output must pass
// through. A node whose immediate fanouts land in two distinct one-hop
// FFRs is not automatically its own MFFC root — if those FFRs themselves
// reconverge further downstream, the true post-dominator is that shared
// FFR, not i.
//
// The FFR DAG is already topologically ordered by index (fanin FFRs have
// strictly lower index than any FFR they feed, since FFR indices are
// assigned in ascending root-node-id order and fanins precede fanouts).
// That makes it a single reverse-topological pass of the standard
// Cooper/Harvey/Kennedy iterative dominance algorithm, applied to the
// reverse graph (successors in the FFR DAG are "predecessors" toward a
// virtual sink representing the primary outputs) — no fixed-point
// iteration is needed since a DAG has no back edges.
func (nl *Netlist) buildMFFCs() {
	ffrRootID := make([]int, len(nl.ffrs)) // ffr index -> root node id
	for i, f := range nl.ffrs {
		ffrRootID[i] = f.Root
	}

	// out[i] = set of distinct downstream FFR indices reachable from FFR i's root.
	out := make([][]int, len(nl.ffrs))
	for i, f := range nl.ffrs {
		seen := make(map[int]bool)
		root := nl.nodes[f.Root]
		for _, fo := range root.fanouts {
			tgt := nl.ffrOf[fo]
			if !seen[tgt] {
				seen[tgt] = true
				out[i] = append(out[i], tgt)
			}
		}
	}

	const sink = -1 // virtual exit node every primary-output FFR feeds

	rank := func(i int) int {
		if i == sink {
			return len(nl.ffrs)
		}

		return i
	}

	// ipdom[i] is FFR i's immediate post-dominator: the nearest FFR (or
	// sink) every path from i to the primary outputs must pass through.
	ipdom := make([]int, len(nl.ffrs))

	var intersect func(a, b int) int
	intersect = func(a, b int) int {
		for a != b {
			for rank(a) < rank(b) {
				a = ipdom[a]
			}
			for rank(b) < rank(a) {
				b = ipdom[b]
			}
		}

		return a
	}

	for i := len(nl.ffrs) - 1; i >= 0; i-- {
		succs := out[i]
		if len(succs) == 0 {
			ipdom[i] = sink

			continue
		}
		newIdom := succs[0]
		for _, s := range succs[1:] {
			newIdom = intersect(newIdom, s)
		}
		ipdom[i] = newIdom
	}

	mffcRootOf := make([]int, len(nl.ffrs)) // ffr index -> mffc root ffr index
	for i := len(nl.ffrs) - 1; i >= 0; i-- {
		if ipdom[i] == sink {
			mffcRootOf[i] = i

			continue
		}
		mffcRootOf[i] = mffcRootOf[ipdom[i]]
	}

	byRoot := make(map[int][]int) // mffc root ffr index -> member ffr indices
	for i := range nl.ffrs {
		r := mffcRootOf[i]
		byRoot[r] = append(byRoot[r], i)
	}

	roots := make([]int, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(a, b int) bool { return ffrRootID[roots[a]] < ffrRootID[roots[b]] })

	nl.mffcs = make([]MFFC, len(roots))
	nl.mffcOf = make([]int, len(nl.nodes))
	for idx, r := range roots {
		ffrIdxs := append([]int(nil), byRoot[r]...)
		sort.Ints(ffrIdxs)
		var nodes []int
		for _, fi := range ffrIdxs {
			nodes = append(nodes, nl.ffrs[fi].Nodes...)
		}
		sort.Ints(nodes)
		nl.mffcs[idx] = MFFC{Root: ffrRootID[r], FFRs: ffrIdxs, Nodes: nodes}
		for _, id := range nodes {
			nl.mffcOf[id] = idx
		}
	}
}
