// Package justify implements structenc.Justifier: given a target
// assignment (typically a detected fault's propagated PPO/DFFIn values),
// derive a primary-input assignment consistent with the solver's
// last model. Naive reads every PPI/DFFOut value straight out of the
// model; Just1 and Just2 instead walk backward from the target through
// controlling-input choices, producing a smaller (but still
// model-consistent) set of PPI assignments.
package justify
