// Package structenc is the structural SAT encoder (component C4): a
// StructEngine lazily emits Tseitin CNF for the good circuit's gate-level
// behaviour over one or two time frames, shared incrementally across many
// DTPG queries on the same region. SubEncs (package subenc) register
// themselves and contribute their own CNF once the structural variables
// they depend on exist.
package structenc
