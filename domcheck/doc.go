// Package domcheck narrows domcand's simulation-derived candidate pairs
// into confirmed dominance relationships via SAT queries at increasing
// scope: FFR-local, trivial-condition, and cross-FFR (component C10).
// Grounded on the original c++-src/minpat/{FFRDomChecker,TrivialChecker2,
// TrivialChecker3,SimpleDomChecker,DomChecker}.cc. Only FFRChecker
// implements the Checker interface; the other checkers take extra
// per-call context and expose their own methods.
//
// Every checker treats a SAT-abort (error return) the same way the rest
// of this module does: the caller cannot conclude dominance, not that it
// holds. A true/false result without error is the only usable verdict.
package domcheck
