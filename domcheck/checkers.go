package domcheck

import (
	"github.com/yusuke-matsunaga/druid-sub002/assign"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
	"github.com/yusuke-matsunaga/druid-sub002/structenc"
	"github.com/yusuke-matsunaga/druid-sub002/subenc"
)

// FFRChecker decides dominance between two faults sharing one FFR (spec
// §4.10's FFRDomChecker): f dominates f' iff ffr_prop(f) ∧ ¬ffr_prop(f')
// is UNSAT while the FFR root's propagation literal holds.
type FFRChecker struct {
	se  *structenc.StructEngine
	bde *subenc.BoolDiffEnc
	fe  *subenc.FFREnc
}

// NewFFRChecker builds the shared StructEngine for every fault in faults,
// which must all lie in the FFR rooted at root.
func NewFFRChecker(nl *netlist.Netlist, solver satsolver.Solver, root int, faults []netlist.Fault) *FFRChecker {
	sequential := false
	for _, f := range faults {
		if f.Kind.IsTransition() {
			sequential = true
		}
	}

	se := structenc.New(nl, solver, sequential)
	bde := subenc.NewBoolDiffEnc(root, nil)
	se.AddSubEnc(bde)
	fe := subenc.NewFFREnc(faults)
	se.AddSubEnc(fe)
	se.Update()

	return &FFRChecker{se: se, bde: bde, fe: fe}
}

// Dominates implements Checker.
func (c *FFRChecker) Dominates(f, fprime int) (bool, error) {
	pf, ok := c.fe.PropVar[f]
	if !ok {
		return false, nil
	}
	pfp, ok := c.fe.PropVar[fprime]
	if !ok {
		return false, nil
	}
	res, err := c.se.Solve(c.bde.PropVar(), pf, pfp.Not())
	if err != nil {
		return false, err
	}

	return res == satsolver.Unsat, nil
}

var _ Checker = (*FFRChecker)(nil)

// TrivialChecker decides dominance between two faults whose mandatory
// conditions are already known (spec §4.10's TrivialChecker1/2/3, unified
// behind one type since the three only differ in which side is already
// known trivial — a distinction the caller, not the checker, needs to
// track): query mandatory(f) ∧ ¬mandatory(f') for UNSAT.
type TrivialChecker struct {
	nl        *netlist.Netlist
	newSolver func() satsolver.Solver
}

// NewTrivialChecker returns a TrivialChecker over nl, minting one fresh
// solver per Dominates call.
func NewTrivialChecker(nl *netlist.Netlist, newSolver func() satsolver.Solver) *TrivialChecker {
	return &TrivialChecker{nl: nl, newSolver: newSolver}
}

// Dominates reports whether mandatoryF dominates mandatoryFprime, i.e.
// every assignment forced by f's mandatory condition is compatible with
// f' never being forced to differ from it.
func (c *TrivialChecker) Dominates(mandatoryF, mandatoryFprime assign.AssignList) (bool, error) {
	sequential := false
	for _, a := range mandatoryF {
		if a.Time == 0 {
			sequential = true
		}
	}
	for _, a := range mandatoryFprime {
		if a.Time == 0 {
			sequential = true
		}
	}
	se := structenc.New(c.nl, c.newSolver(), sequential)
	for _, a := range mandatoryF {
		addNode(se, a)
	}
	for _, a := range mandatoryFprime {
		addNode(se, a)
	}
	se.Update()

	fLits, err := se.ConvAssignList(mandatoryF)
	if err != nil {
		return false, err
	}
	fpLits, err := se.ConvAssignList(mandatoryFprime)
	if err != nil {
		return false, err
	}

	notFp := negatedOr(se, fpLits)

	assumptions := make([]satsolver.Lit, 0, len(fLits)+1)
	assumptions = append(assumptions, fLits...)
	assumptions = append(assumptions, notFp)

	res, err := se.Solve(assumptions...)
	if err != nil {
		return false, err
	}

	return res == satsolver.Unsat, nil
}

// SimpleChecker decides dominance between faults in two different FFRs
// when only one side's BoolDiffEnc is built (spec §4.10's
// SimpleDomChecker): for each literal l in ffr_prop(f'), check
// ffr_prop(f) ∧ prop_var ∧ ¬l. If every such query is UNSAT, f dominates.
type SimpleChecker struct {
	nl *netlist.Netlist
}

// NewSimpleChecker returns a SimpleChecker over nl.
func NewSimpleChecker(nl *netlist.Netlist) *SimpleChecker {
	return &SimpleChecker{nl: nl}
}

// Check reports whether the fault encoded by se/bde/fe (f, already
// excited in FFR1 with propagation literal ffrProp) dominates fprime,
// whose ground FFR-propagation cube is fprimeCond.
func (c *SimpleChecker) Check(se *structenc.StructEngine, ffrProp, propVar satsolver.Lit, fprimeCond assign.AssignList) (bool, error) {
	lits, err := se.ConvAssignList(fprimeCond)
	if err != nil {
		return false, err
	}
	for _, l := range lits {
		res, err := se.Solve(ffrProp, propVar, l.Not())
		if err != nil {
			return false, err
		}
		if res != satsolver.Unsat {
			return false, nil
		}
	}

	return true, nil
}

// CrossFFRChecker decides dominance between faults in two different FFRs
// using two BoolDiffEncs in one StructEngine (spec §4.10's DomChecker):
// the coarse FFR-level check is f dominates-at-FFR-scope iff
// ffr_prop(f) ∧ prop_var1 ∧ ¬prop_var2 is UNSAT; Refine narrows a
// surviving pair down to an individual fault f' the way SimpleDomChecker
// does, reusing this same engine so f''s condition literals resolve
// against nodes already registered by fe2.
type CrossFFRChecker struct {
	se   *structenc.StructEngine
	bde1 *subenc.BoolDiffEnc
	bde2 *subenc.BoolDiffEnc
	fe1  *subenc.FFREnc
	fe2  *subenc.FFREnc
}

// NewCrossFFRChecker builds the shared two-cone StructEngine for faults
// rooted at root1/root2 (FFR1/FFR2 respectively). faults1/faults2 must be
// rooted at root1/root2 respectively; fe2's sole purpose is registering
// each FFR2 fault's condition nodes so Refine can convert them to
// literals in this same engine.
func NewCrossFFRChecker(nl *netlist.Netlist, solver satsolver.Solver, root1, root2 int, faults1, faults2 []netlist.Fault) *CrossFFRChecker {
	sequential := false
	for _, f := range faults1 {
		if f.Kind.IsTransition() {
			sequential = true
		}
	}
	for _, f := range faults2 {
		if f.Kind.IsTransition() {
			sequential = true
		}
	}

	se := structenc.New(nl, solver, sequential)
	bde1 := subenc.NewBoolDiffEnc(root1, nil)
	bde2 := subenc.NewBoolDiffEnc(root2, nil)
	se.AddSubEnc(bde1)
	se.AddSubEnc(bde2)
	fe1 := subenc.NewFFREnc(faults1)
	fe2 := subenc.NewFFREnc(faults2)
	se.AddSubEnc(fe1)
	se.AddSubEnc(fe2)
	se.Update()

	return &CrossFFRChecker{se: se, bde1: bde1, bde2: bde2, fe1: fe1, fe2: fe2}
}

// Dominates reports whether f (in FFR1) dominates-at-FFR-scope FFR2's
// root toggle, per spec §4.10 — f' itself need not be individually
// excited for this coarse check.
func (c *CrossFFRChecker) Dominates(f int) (bool, error) {
	pf, ok := c.fe1.PropVar[f]
	if !ok {
		return false, nil
	}
	res, err := c.se.Solve(pf, c.bde1.PropVar(), c.bde2.PropVar().Not())
	if err != nil {
		return false, err
	}

	return res == satsolver.Unsat, nil
}

// Refine narrows a coarse Dominates(f) success down to a specific FFR2
// fault, whose ground propagation condition is fprimeCond, per spec
// §4.10's SimpleDomChecker: for each literal l in fprimeCond, check
// ffr_prop(f) ∧ prop_var1 ∧ ¬l. fprimeCond's nodes must already be
// registered in this engine, which NewCrossFFRChecker's fe2 guarantees
// for every fault passed to it as faults2.
func (c *CrossFFRChecker) Refine(f int, fprimeCond assign.AssignList) (bool, error) {
	pf, ok := c.fe1.PropVar[f]
	if !ok {
		return false, nil
	}
	simple := NewSimpleChecker(nil)

	return simple.Check(c.se, pf, c.bde1.PropVar(), fprimeCond)
}
