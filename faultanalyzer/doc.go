// Package faultanalyzer computes, per FFR, the sufficient and mandatory
// detection conditions of every fault it contains (component C8),
// grounded on the original c++-src/minpat/FaultAnalyzer.cc. A fault's
// mandatory condition is the subset of its sufficient condition that
// every detecting test must satisfy; a fault is trivial when the two
// coincide. reducer's trivial-reduction phases consume this output.
package faultanalyzer
