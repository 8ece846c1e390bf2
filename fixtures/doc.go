// Package fixtures builds small, fully in-memory netlist.Netlist values
// for use in tests across this module, standing in for a BLIF/ISCAS-89
// parser (out of scope per spec §1). Each constructor follows the same
// named-variant-builder shape as the teacher's builder package
// (impl_star.go, impl_cycle.go): a function per topology returning the
// finished graph plus the handles a test needs to drive it.
package fixtures
