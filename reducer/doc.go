// Package reducer orchestrates fault-set minimisation (component C11):
// it runs domcand's simulation-derived candidates through increasingly
// expensive SAT dominance checks, in the fixed phase order spec §4.11
// prescribes, and returns the surviving fault IDs plus per-phase counts.
// Grounded on the original c++-src/minpat/{Reducer,FaultReducer}.cc.
package reducer
