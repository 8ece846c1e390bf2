// Package druid is an Automatic Test Pattern Generation engine for
// digital combinational and scan (sequential) circuits under the
// single-stuck-at and transition-delay fault models.
//
// Given a netlist (package netlist) and a fault list, Run classifies
// every fault as detected, untestable, or aborted, producing a test
// vector per detected fault (package tvec) and a compact, dominance-
// reduced vector set. The core pipeline is:
//
//	netlist   — read-only node/FFR/MFFC/fault graph (C1)
//	tvec      — 3-valued test-vector bit arrays and hex codec
//	fsim      — packed-word bit-parallel fault simulator (C2)
//	satsolver — CDCL SAT solver behind a small adapter interface (C3)
//	structenc — lazy Tseitin CNF of the good circuit (C4)
//	subenc    — Boolean-difference/FFR/MFFC/fault encoders (C5)
//	justify   — backward PI justification strategies (C6)
//	dtpg      — per-fault SAT-based test generation driver (C7)
//	faultanalyzer — sufficient/mandatory condition computation (C8)
//	domcand   — simulation-derived dominance candidates (C9)
//	domcheck  — SAT-based dominance checkers (C10)
//	reducer   — multi-phase fault-set reduction orchestrator (C11)
//
// Netlist parsing, CLI handling, logging/statistics formatting, and
// pattern compaction downstream of this module's output are out of
// scope; this package is the library a CLI or language binding wires
// itself around.
package druid
