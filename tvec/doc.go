// Package tvec implements TestVector: the 3-valued bit vector over
// (PPI values at time 0, PI values at time 1) that a detected fault's test
// pattern is expressed as, plus its canonical hex serialisation (spec §6's
// persisted-state layout — there is no other persisted state in this
// module; TestVector is the one format round-tripped through a string).
package tvec
