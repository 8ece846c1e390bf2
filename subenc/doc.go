// Package subenc holds the structural sub-encoders (component C5) that
// plug into a structenc.StructEngine: BoolDiffEnc (fault-propagation
// difference encoding), MFFCEnc and FFREnc (fault-activation over an MFFC
// or a single FFR), and FaultEnc (a single fault's excitation condition).
package subenc
