// Package dtpg implements the top-level test-generation loop (component
// C7): group the active fault list by node/FFR/MFFC, build the matching
// StructEngine + sub-encoders once per region, then for every fault in
// the region assume its propagation condition, solve, extract a
// sufficient condition, justify it to primary inputs, and report the
// result through Callbacks.
//
// Grounded on the original c++-src/dtpg/dtpg_mgr/DtpgMgr.cc (the
// top-level run loop) and c++-src/dtpg/driver/DtpgDriverImpl.h (the
// solve/fault_op/cnf_time/sat_stats interface, rendered here as Driver);
// EngineDriver and EncDriver play the role flow.Dinic/flow.EdmondsKarp/
// flow.FordFulkerson play behind flow.FlowOptions — one calling
// convention, interchangeable strategies.
package dtpg
