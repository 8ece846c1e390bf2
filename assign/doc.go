// Package assign defines the NodeTimeVal / AssignList primitives shared by
// the structural encoder, the sub-encoders, the justifier and the fault
// analyzer: a (node, time, value) triple and an ordered, duplicate-free set
// of them with set-algebra and four-valued comparison.
//
// An Assignment never carries a pointer back to the netlist it describes;
// callers resolve Node against whatever *netlist.Netlist is in scope. This
// keeps the package dependency-free and reusable from both "good circuit"
// and "faulty circuit" contexts.
package assign
