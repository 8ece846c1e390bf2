// Package netlist is the read-only circuit graph (component C1 of the
// ATPG engine): nodes identified by dense, topologically-ordered integer
// ids, fanin/fanout adjacency, FFR and MFFC decomposition, and the fault
// list (with structural-equivalence collapsing).
//
// A Netlist is built once via Builder and is immutable afterwards — every
// other component (the simulator, the structural encoder, the reducer)
// borrows node/fault ids from it for its own lifetime and never mutates
// it. This mirrors core.Graph's separate-mutex read/write split, simplified
// to "no write path at all" once Build has returned.
package netlist
