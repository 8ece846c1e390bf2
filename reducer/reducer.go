package reducer

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yusuke-matsunaga/druid-sub002/domcand"
	"github.com/yusuke-matsunaga/druid-sub002/domcheck"
	"github.com/yusuke-matsunaga/druid-sub002/faultanalyzer"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
)

// Reducer runs the phase pipeline of spec §4.11 over one netlist.
type Reducer struct {
	nl  *netlist.Netlist
	cfg *Config
}

// New returns a Reducer over nl, configured by opts.
func New(nl *netlist.Netlist, opts ...Option) *Reducer {
	return &Reducer{nl: nl, cfg: newConfig(opts...)}
}

// ffrGroup bundles one FFR's surviving faults, its root, and its
// primary/pseudo-primary input-node set (used by global_reduction's
// intersection test).
type ffrGroup struct {
	idx    int
	root   int
	faults []netlist.Fault
	inputs map[int]bool
}

// Reduce runs gen_dom_cands, ffr_reduction, the optional fault-analysis/
// trivial_reduction phases, and global_reduction over faultIDs in order,
// returning the surviving fault IDs (ascending) and per-phase Stats.
func (r *Reducer) Reduce(faultIDs []int) ([]int, Stats, error) {
	stats := Stats{Initial: len(faultIDs)}
	if len(faultIDs) == 0 {
		return nil, stats, nil
	}

	deleted := make(map[int]bool, len(faultIDs))

	cand := domcand.Generate(r.nl, faultIDs, r.cfg.Seeds, r.cfg.LoopLimit, r.cfg.Rand)

	groups, ffrOf := r.groupByFFR(faultIDs)

	if err := r.ffrReduction(groups, ffrOf, cand, deleted, &stats); err != nil {
		return nil, stats, err
	}
	r.logPhase("ffr_reduction", stats.FFRReduced)

	var conds map[int]faultanalyzer.Conditions
	if r.cfg.RunFaultAnalysis {
		var err error
		conds, err = r.analyzeAll(groups, deleted)
		if err != nil {
			return nil, stats, err
		}
		r.trivialReduction(faultIDs, cand, conds, deleted, &stats)
		r.logPhase("trivial_reduction", stats.TrivialReduced)
	}

	if err := r.globalReduction(groups, ffrOf, cand, deleted, &stats); err != nil {
		return nil, stats, err
	}
	r.logPhase("global_reduction", stats.GlobalReduced)

	survivors := make([]int, 0, len(faultIDs))
	for _, id := range faultIDs {
		if !deleted[id] {
			survivors = append(survivors, id)
		}
	}
	sort.Ints(survivors)
	stats.Survivors = len(survivors)

	return survivors, stats, nil
}

// logPhase reports a phase's running total kill count if a logger is
// attached; a no-op otherwise.
func (r *Reducer) logPhase(phase string, killedSoFar int) {
	if r.cfg.Logger == nil {
		return
	}
	r.cfg.Logger.Debug().Str("phase", phase).Int("killed_so_far", killedSoFar).Msg("reduction phase complete")
}

// groupByFFR partitions faultIDs by the FFR owning each fault's node,
// and records each FFR's input-node set once.
func (r *Reducer) groupByFFR(faultIDs []int) (map[int]*ffrGroup, map[int]int) {
	ffrIndexOf := make(map[int]int, len(r.nl.FFRs())) // node id -> FFR index
	for i, ffr := range r.nl.FFRs() {
		for _, id := range ffr.Nodes {
			ffrIndexOf[id] = i
		}
	}

	groups := make(map[int]*ffrGroup)
	ffrOf := make(map[int]int, len(faultIDs))
	for _, id := range faultIDs {
		f := r.nl.Fault(id)
		idx, ok := ffrIndexOf[f.Node]
		if !ok {
			continue
		}
		ffrOf[id] = idx
		g, ok := groups[idx]
		if !ok {
			g = &ffrGroup{idx: idx, root: r.nl.FFRs()[idx].Root, inputs: r.inputNodeSet(idx)}
			groups[idx] = g
		}
		g.faults = append(g.faults, f)
	}

	return groups, ffrOf
}

// inputNodeSet returns the PPI/DFFOut node ids feeding the FFR at idx.
func (r *Reducer) inputNodeSet(idx int) map[int]bool {
	root := r.nl.FFRs()[idx].Root
	ids := r.nl.TFI([]int{root}, nil)
	inputs := make(map[int]bool)
	for _, id := range ids {
		if r.nl.Node(id).IsPPI() {
			inputs[id] = true
		}
	}

	return inputs
}

// ffrReduction implements spec §4.11 step 2: within each FFR, a fault is
// deleted once some surviving candidate dominator in the same FFR is
// confirmed via FFRChecker.
func (r *Reducer) ffrReduction(groups map[int]*ffrGroup, ffrOf map[int]int, cand map[int][]int, deleted map[int]bool, stats *Stats) error {
	for _, g := range groups {
		if len(g.faults) < 2 {
			continue
		}
		checker := domcheck.NewFFRChecker(r.nl, r.cfg.NewSolver(), g.root, g.faults)
		for _, f := range g.faults {
			if deleted[f.ID] || f.PropagateConflict {
				continue
			}
			// cand[f] holds candidate dominators: faults detected by every
			// simulated pattern that detected f. A confirmed dominator is
			// the deletable one — keeping f guarantees its detection.
			for _, dom := range cand[f.ID] {
				if deleted[dom] || ffrOf[dom] != g.idx {
					continue
				}
				ok, err := checker.Dominates(f.ID, dom)
				if err != nil {
					return err
				}
				if ok {
					deleted[dom] = true
					stats.FFRReduced++
				}
			}
		}
	}

	return nil
}

// analyzeAll runs faultanalyzer.AnalyzeFFR over every FFR's surviving
// faults, per spec §4.11 step 3.
func (r *Reducer) analyzeAll(groups map[int]*ffrGroup, deleted map[int]bool) (map[int]faultanalyzer.Conditions, error) {
	conds := make(map[int]faultanalyzer.Conditions)
	az := faultanalyzer.New(r.nl, r.cfg.NewSolver)
	for _, g := range groups {
		var ids []int
		for _, f := range g.faults {
			if !deleted[f.ID] {
				ids = append(ids, f.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		c, err := az.AnalyzeFFR(g.idx, ids)
		if err != nil {
			return nil, err
		}
		for id, cc := range c {
			conds[id] = cc
		}
	}

	return conds, nil
}

// trivialReduction implements spec §4.11 step 4: among faults whose
// sufficient and mandatory conditions coincide, a candidate dominator
// (also trivial) whose detection TrivialChecker confirms is implied by
// the dominated fault's is deleted — the kept fault's test covers it.
func (r *Reducer) trivialReduction(faultIDs []int, cand map[int][]int, conds map[int]faultanalyzer.Conditions, deleted map[int]bool, stats *Stats) {
	tc := domcheck.NewTrivialChecker(r.nl, r.cfg.NewSolver)
	for _, id := range faultIDs {
		if deleted[id] {
			continue
		}
		cf, ok := conds[id]
		if !ok || !cf.IsTrivial() {
			continue
		}
		for _, dom := range cand[id] {
			if deleted[dom] {
				continue
			}
			cd, ok := conds[dom]
			if !ok || !cd.IsTrivial() {
				continue
			}
			ok2, err := tc.Dominates(cf.Mandatory, cd.Mandatory)
			if err != nil || !ok2 {
				continue
			}
			deleted[dom] = true
			stats.TrivialReduced++
		}
	}
}

// globalReduction implements spec §4.11 step 5: every pair of FFRs
// sharing an input node is checked once with CrossFFRChecker, then every
// surviving candidate fault pair is refined with CrossFFRChecker.Refine.
// Independent FFR1/FFR2 pairs run concurrently, bounded by cfg.Parallel.
func (r *Reducer) globalReduction(groups map[int]*ffrGroup, ffrOf map[int]int, cand map[int][]int, deleted map[int]bool, stats *Stats) error {
	var pairs [][2]*ffrGroup
	seen := make(map[[2]int]bool)
	for _, g1 := range groups {
		for _, g2 := range groups {
			if g1.idx == g2.idx {
				continue
			}
			key := [2]int{g1.idx, g2.idx}
			if seen[key] {
				continue
			}
			seen[key] = true
			if !sharesInput(g1.inputs, g2.inputs) {
				continue
			}
			pairs = append(pairs, [2]*ffrGroup{g1, g2})
		}
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(r.cfg.Parallel)

	for _, pair := range pairs {
		g1, g2 := pair[0], pair[1]
		eg.Go(func() error {
			killed, err := r.checkPair(g1, g2, ffrOf, cand, deleted, &mu)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.GlobalReduced += killed
			mu.Unlock()

			return nil
		})
	}

	return eg.Wait()
}

// checkPair runs CrossFFRChecker's Dominates and Refine for one ordered (FFR1, FFR2)
// pair and returns how many FFR2 faults it deleted.
func (r *Reducer) checkPair(g1, g2 *ffrGroup, ffrOf map[int]int, cand map[int][]int, deleted map[int]bool, mu *sync.Mutex) (int, error) {
	mu.Lock()
	f1 := make([]netlist.Fault, 0, len(g1.faults))
	for _, f := range g1.faults {
		if !deleted[f.ID] {
			f1 = append(f1, f)
		}
	}
	f2 := make([]netlist.Fault, 0, len(g2.faults))
	for _, f := range g2.faults {
		if !deleted[f.ID] {
			f2 = append(f2, f)
		}
	}
	mu.Unlock()
	if len(f1) == 0 || len(f2) == 0 {
		return 0, nil
	}

	checker := domcheck.NewCrossFFRChecker(r.nl, r.cfg.NewSolver(), g1.root, g2.root, f1, f2)

	killed := 0
	for _, f := range f1 {
		mu.Lock()
		dead := deleted[f.ID]
		mu.Unlock()
		if dead || f.PropagateConflict {
			continue
		}

		// Candidates of f living in FFR2: every simulated pattern that
		// detected f detected them too, so a SAT-confirmed one is covered
		// by f's test and can be deleted.
		var relevant []netlist.Fault
		for _, fp := range f2 {
			for _, d := range cand[f.ID] {
				if d == fp.ID {
					relevant = append(relevant, fp)

					break
				}
			}
		}
		if len(relevant) == 0 {
			continue
		}

		coarse, err := checker.Dominates(f.ID)
		if err != nil {
			return killed, err
		}
		if !coarse {
			continue
		}

		for _, fp := range relevant {
			mu.Lock()
			dead := deleted[fp.ID]
			mu.Unlock()
			if dead {
				continue
			}
			ok, err := checker.Refine(f.ID, fp.FFRPropagateCondition)
			if err != nil {
				return killed, err
			}
			if !ok {
				continue
			}
			mu.Lock()
			// Re-check the keeper too: a concurrent pair running in the
			// opposite direction may have deleted f meanwhile, and a
			// mutual kill would leave neither side's test obligated.
			if !deleted[f.ID] && !deleted[fp.ID] {
				deleted[fp.ID] = true
				killed++
			}
			mu.Unlock()
		}
	}

	return killed, nil
}

func sharesInput(a, b map[int]bool) bool {
	for id := range a {
		if b[id] {
			return true
		}
	}

	return false
}
