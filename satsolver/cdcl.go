package satsolver

import "github.com/rs/zerolog"

// internalClause is a clause as stored by CDCL: lits[0] and lits[1] are
// the two watched literals.
type internalClause struct {
	lits   []Lit
	learnt bool
}

// CDCL is a conflict-driven clause-learning SAT solver: two-watched-
// literal unit propagation, first-UIP conflict analysis and clause
// learning, VSIDS-style activity-based decisions, and geometrically
// growing restarts.
type CDCL struct {
	clauses []*internalClause
	watches [][]int // per literal -> clause indices watching it

	assigns  []Value3 // per var
	level    []int    // per var, decision level at assignment time
	reason   []int    // per var, clause index implying it, -1 if a decision
	trail    []Lit
	trailLim []int // trail index at the start of each decision level

	activity []float64
	varInc   float64
	varDecay float64
	polarity []bool // saved phase per var

	stats  Stats
	logger *zerolog.Logger
}

// NewCDCL returns an empty solver.
func NewCDCL() *CDCL {
	return &CDCL{
		varInc:   1.0,
		varDecay: 0.95,
	}
}

// SetLogger attaches an optional debug logger (spec §6's sat_param "log
// sink" key); nil disables logging, matching zerolog's own nop-logger
// convention. Restart events are logged at debug level.
func (s *CDCL) SetLogger(logger *zerolog.Logger) { s.logger = logger }

// NewVar allocates a fresh variable.
func (s *CDCL) NewVar() Var {
	v := Var(len(s.assigns))
	s.assigns = append(s.assigns, Undef)
	s.level = append(s.level, -1)
	s.reason = append(s.reason, -1)
	s.activity = append(s.activity, 0)
	s.polarity = append(s.polarity, false)
	s.watches = append(s.watches, nil, nil) // two literals per var

	return v
}

func (s *CDCL) nVars() int { return len(s.assigns) }

// AddClause adds a clause and attaches watches. Any in-flight assumption/
// decision state from a previous Solve is discarded first, so root-level
// unit clauses are judged against root-level facts only. Returns false if
// this clause (or a prior root-level unit propagation) makes the database
// unsatisfiable.
func (s *CDCL) AddClause(lits ...Lit) bool {
	s.backtrackTo(0)
	cl := append(Clause(nil), lits...)
	if len(cl) == 0 {
		return false
	}
	if len(cl) == 1 {
		return s.enqueueRoot(cl[0])
	}

	ic := &internalClause{lits: cl}
	idx := len(s.clauses)
	s.clauses = append(s.clauses, ic)
	s.watch(idx, cl[0])
	s.watch(idx, cl[1])

	return true
}

// enqueueRoot asserts a root-level unit clause directly; used both for
// genuine unit clauses added by callers and for unit clauses learnt at
// decision level 0.
func (s *CDCL) enqueueRoot(lit Lit) bool {
	switch s.litValue(lit) {
	case True:
		return true
	case False:
		return false
	}
	s.assigns[lit.Var()] = litTruth(lit)
	s.level[lit.Var()] = 0
	s.reason[lit.Var()] = -1
	s.trail = append(s.trail, lit)

	return true
}

func litTruth(l Lit) Value3 {
	if l.Sign() {
		return False
	}

	return True
}

func (s *CDCL) watch(clauseIdx int, lit Lit) {
	s.watches[lit] = append(s.watches[lit], clauseIdx)
}

func (s *CDCL) litValue(l Lit) Value3 {
	a := s.assigns[l.Var()]
	if a == Undef {
		return Undef
	}
	if l.Sign() {
		if a == True {
			return False
		}

		return True
	}

	return a
}

func (s *CDCL) currentLevel() int { return len(s.trailLim) }

// Value returns v's current assignment (meaningful after Sat).
func (s *CDCL) Value(v Var) Value3 { return s.assigns[v] }

// Stats returns a snapshot of the solver's counters.
func (s *CDCL) Stats() Stats { return s.stats }

// Solve runs the solver to completion under the given assumptions. Each
// assumption occupies its own decision level (levels 1..len(assumptions)),
// re-established after every restart or backjump below it, so repeated
// incremental queries against one clause database stay independent.
func (s *CDCL) Solve(assumptions ...Lit) (Result, error) {
	s.backtrackTo(0) // discard the previous query's assumption/decision state
	qhead := 0

	conflictsSinceRestart := 0
	restartBound := 100

	for {
		confl := s.propagateFrom(&qhead)
		if confl != -1 {
			s.stats.Conflicts++
			conflictsSinceRestart++
			if s.currentLevel() <= len(assumptions) {
				// The conflict rests on root facts and assumptions alone.
				s.backtrackTo(0)

				return Unsat, nil
			}
			learnt, btlevel := s.analyze(confl)
			s.backtrackTo(btlevel)
			qhead = len(s.trail)
			s.learnClause(learnt)

			continue
		}

		if conflictsSinceRestart >= restartBound {
			s.stats.Restarts++
			conflictsSinceRestart = 0
			restartBound = restartBound + restartBound/2
			s.backtrackTo(0)
			qhead = len(s.trail)
			if s.logger != nil {
				s.logger.Debug().Int64("conflicts", s.stats.Conflicts).Int("next_bound", restartBound).Msg("sat restart")
			}

			continue
		}

		if lvl := s.currentLevel(); lvl < len(assumptions) {
			// Re-establish the next assumption, one level each so conflict
			// analysis keeps its one-decision-per-level invariant.
			a := assumptions[lvl]
			switch s.litValue(a) {
			case True:
				s.newLevel() // already implied; keep the level indexing aligned
			case False:
				s.backtrackTo(0)

				return Unsat, nil
			default:
				s.newLevel()
				s.uncheckedEnqueue(a, -1)
			}

			continue
		}

		v, ok := s.pickBranchVar()
		if !ok {
			return Sat, nil // every variable assigned, no conflict: satisfying assignment found
		}
		s.stats.Decisions++
		s.newLevel()
		lit := MkLit(v, s.polarity[v])
		s.uncheckedEnqueue(lit, -1)
	}
}

func (s *CDCL) newLevel() {
	s.trailLim = append(s.trailLim, len(s.trail))
}

func (s *CDCL) uncheckedEnqueue(lit Lit, reasonClause int) {
	v := lit.Var()
	s.assigns[v] = litTruth(lit)
	s.level[v] = s.currentLevel()
	s.reason[v] = reasonClause
	s.trail = append(s.trail, lit)
}

// pickBranchVar returns the unassigned variable with highest activity.
func (s *CDCL) pickBranchVar() (Var, bool) {
	best := Var(-1)
	bestAct := -1.0
	for v := 0; v < s.nVars(); v++ {
		if s.assigns[v] != Undef {
			continue
		}
		if s.activity[v] > bestAct {
			bestAct = s.activity[v]
			best = Var(v)
		}
	}
	if best < 0 {
		return 0, false
	}

	return best, true
}

// propagateFrom runs unit propagation via the two-watched-literal scheme
// starting at *qhead, advancing it, and returns the conflicting clause
// index or -1.
func (s *CDCL) propagateFrom(qhead *int) int {
	for *qhead < len(s.trail) {
		lit := s.trail[*qhead]
		*qhead++
		s.stats.Propagations++

		falseLit := lit.Not()
		ws := s.watches[falseLit]
		s.watches[falseLit] = ws[:0]

		for i := 0; i < len(ws); i++ {
			ci := ws[i]
			c := s.clauses[ci]

			// Normalise so c.lits[0] is the literal not equal to falseLit.
			if c.lits[0] == falseLit {
				c.lits[0], c.lits[1] = c.lits[1], c.lits[0]
			}
			if s.litValue(c.lits[0]) == True {
				s.watches[falseLit] = append(s.watches[falseLit], ci)

				continue
			}

			moved := false
			for k := 2; k < len(c.lits); k++ {
				if s.litValue(c.lits[k]) != False {
					c.lits[1], c.lits[k] = c.lits[k], c.lits[1]
					s.watch(ci, c.lits[1])
					moved = true

					break
				}
			}
			if moved {
				continue
			}

			s.watches[falseLit] = append(s.watches[falseLit], ci)
			if s.litValue(c.lits[0]) == False {
				// Conflict: put back the remaining un-scanned watchers untouched.
				for j := i + 1; j < len(ws); j++ {
					s.watches[falseLit] = append(s.watches[falseLit], ws[j])
				}

				return ci
			}
			s.uncheckedEnqueue(c.lits[0], ci)
		}
	}

	return -1
}

// analyze performs first-UIP conflict analysis starting from the
// conflicting clause confl, returning the learnt clause (asserting
// literal at index 0) and the backjump level.
func (s *CDCL) analyze(confl int) ([]Lit, int) {
	seen := make([]bool, s.nVars())
	learnt := []Lit{LitUndef}
	counter := 0
	var p Lit = LitUndef
	reasonIdx := confl
	trailIdx := len(s.trail) - 1

	for {
		c := s.clauses[reasonIdx]
		for _, q := range c.lits {
			if q == p {
				continue
			}
			v := q.Var()
			if seen[v] {
				continue
			}
			if s.level[v] <= 0 {
				continue
			}
			seen[v] = true
			s.bumpActivity(v)
			if s.level[v] == s.currentLevel() {
				counter++
			} else {
				learnt = append(learnt, q)
			}
		}

		for !seen[s.trail[trailIdx].Var()] {
			trailIdx--
		}
		p = s.trail[trailIdx]
		seen[p.Var()] = false
		counter--
		trailIdx--
		if counter == 0 {
			break
		}
		reasonIdx = s.reason[p.Var()]
	}
	learnt[0] = p.Not()

	btlevel := 0
	for _, q := range learnt[1:] {
		if l := s.level[q.Var()]; l > btlevel {
			btlevel = l
		}
	}

	s.varInc /= s.varDecay

	return learnt, btlevel
}

func (s *CDCL) bumpActivity(v Var) {
	s.activity[v] += s.varInc
	if s.activity[v] > 1e100 {
		for i := range s.activity {
			s.activity[i] *= 1e-100
		}
		s.varInc *= 1e-100
	}
}

// learnClause adds a just-derived clause and asserts its first literal
// (the UIP) via unit propagation at the (already-backtracked) current
// level.
func (s *CDCL) learnClause(lits []Lit) {
	if len(lits) == 1 {
		s.uncheckedEnqueue(lits[0], -1)

		return
	}

	ic := &internalClause{lits: lits, learnt: true}
	idx := len(s.clauses)
	s.clauses = append(s.clauses, ic)

	// Keep the second-highest-level literal as the second watch so this
	// clause becomes unit exactly at the backjump level.
	best := 1
	bestLevel := -1
	for i := 1; i < len(lits); i++ {
		if l := s.level[lits[i].Var()]; l > bestLevel {
			bestLevel = l
			best = i
		}
	}
	lits[1], lits[best] = lits[best], lits[1]

	s.watch(idx, lits[0])
	s.watch(idx, lits[1])
	s.uncheckedEnqueue(lits[0], idx)
}

// backtrackTo undoes all assignments made at decision levels above level.
func (s *CDCL) backtrackTo(level int) {
	if s.currentLevel() <= level {
		return
	}
	from := s.trailLim[level]
	for i := len(s.trail) - 1; i >= from; i-- {
		v := s.trail[i].Var()
		s.polarity[v] = s.trail[i].Sign()
		s.assigns[v] = Undef
		s.level[v] = -1
		s.reason[v] = -1
	}
	s.trail = s.trail[:from]
	s.trailLim = s.trailLim[:level]
}
