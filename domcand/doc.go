// Package domcand generates dominance-candidate lists (component C9) by
// simulation: repeatedly running fsim.PPSFP over random/seeded patterns
// and pruning, for every fault, the set of faults that could dominate it
// to those detected on at least every pattern that detected it so far.
// Grounded on the original c++-src/minpat/DomCandGen.cc. The result is a
// superset of the true dominance relation; domcheck narrows it with SAT.
package domcand
