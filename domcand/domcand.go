package domcand

import (
	"sort"

	"github.com/yusuke-matsunaga/druid-sub002/fsim"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Generate computes, for every fault in faultIDs, a list of faults that
// are candidates for dominating it (spec §4.9): f' survives in cand[f]
// only if, across every simulated pattern batch, whenever f was detected
// f' was detected too. seeds are existing test vectors: every batch starts
// with the first fsim.PVBitLen of them (their X bits filled via rng) and is
// filled up with fully random patterns. Simulation stops after loopLimit
// consecutive rounds produce no further pruning.
func Generate(nl *netlist.Netlist, faultIDs []int, seeds []*tvec.TestVector, loopLimit int, rng func() bool) map[int][]int {
	cand := make(map[int]map[int]bool, len(faultIDs))
	for _, f := range faultIDs {
		others := make(map[int]bool, len(faultIDs)-1)
		for _, g := range faultIDs {
			if g != f {
				others[g] = true
			}
		}
		cand[f] = others
	}
	if len(faultIDs) == 0 {
		return map[int][]int{}
	}

	fs := fsim.New(nl)
	fs.SetSkipAll()
	for _, f := range faultIDs {
		fs.ClearSkip(f)
	}

	idle := 0
	round := 0
	for idle < loopLimit {
		batch := buildBatch(nl, seeds, round, rng)
		roundMask := make(map[int]uint64, len(faultIDs))
		fs.PPSFP(batch, func(fault int, d fsim.DiffBits) {
			roundMask[fault] = combineLanes(d)
		})

		changed := false
		for f, set := range cand {
			mf := roundMask[f]
			for g := range set {
				mg := roundMask[g]
				if mf&^mg != 0 {
					delete(set, g)
					changed = true
				}
			}
		}

		if changed {
			idle = 0
		} else {
			idle++
		}
		round++
	}

	out := make(map[int][]int, len(cand))
	for f, set := range cand {
		ids := make([]int, 0, len(set))
		for g := range set {
			ids = append(ids, g)
		}
		sort.Ints(ids)
		out[f] = ids
	}

	return out
}

// buildBatch assembles up to fsim.PVBitLen patterns: one per seed (X-filled
// via rng) followed by fully-random fill patterns.
func buildBatch(nl *netlist.Netlist, seeds []*tvec.TestVector, round int, rng func() bool) []*tvec.TestVector {
	batch := make([]*tvec.TestVector, 0, fsim.PVBitLen)
	for i := 0; i < len(seeds) && len(batch) < fsim.PVBitLen; i++ {
		batch = append(batch, seeds[i].FixXFromRandom(rng))
	}
	for len(batch) < fsim.PVBitLen {
		batch = append(batch, tvec.New(nl).FixXFromRandom(rng))
	}
	_ = round // the batch does not depend on round; successive batches differ only through rng's own state

	return batch
}

func combineLanes(d fsim.DiffBits) uint64 {
	var mask uint64
	for _, m := range d {
		mask |= m
	}

	return mask
}
