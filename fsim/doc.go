// Package fsim is the bit-parallel fault simulator (component C2 of the
// ATPG engine): packed-word 3-valued evaluation of a netlist.Netlist,
// supporting single-pattern/single-fault (SPSFP), single-pattern/parallel-
// fault (SPPFP) and parallel-pattern/parallel-fault (PPSFP) simulation, plus
// sequential state for functional/scan simulation runs.
//
// Every node's value is a PackedVal: a pair of 64-bit words encoding up to
// 64 lanes of 3-valued logic (0, 1, X), one lane per simulated pattern. A
// fault's effect is computed by re-evaluating only the nodes in its
// topological forward cone (netlist.TFO), reusing the good-circuit values
// everywhere else — the same cone-reuse idea subenc's BoolDiffEnc applies
// on the SAT side, applied here to plain bit-parallel evaluation instead of
// CNF.
package fsim
