// Package satsolver is the propositional SAT layer (component C3 of the
// ATPG engine). It defines Var/Lit/Clause and a small Solver interface,
// Tseitin gate-encoding helpers built on top of that interface, and one
// concrete solver — CDCL, a conflict-driven clause-learning engine with
// two-watched-literal propagation, first-UIP clause learning, VSIDS-style
// activity decay and geometrically growing restarts.
//
// No SAT solver library is available to this module (spec's external-
// collaborator boundary), so CDCL is deliberately self-contained; every
// other package only ever talks to the Solver interface, never to CDCL's
// internals, so a future caller can swap in a different engine.
package satsolver
