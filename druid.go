package druid

import (
	"github.com/yusuke-matsunaga/druid-sub002/dtpg"
	"github.com/yusuke-matsunaga/druid-sub002/fsim"
	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/reducer"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// Result is the end-to-end outcome of Run: every fault's DTPG
// classification plus the dominance-reduced survivor list.
type Result struct {
	// Detected holds, in discovery order, every fault ID classified
	// Detected — either directly by DTPG or by fault dropping against an
	// already-generated vector.
	Detected []int
	// Vectors maps a Detected fault ID to the test vector that detects it.
	Vectors map[int]*tvec.TestVector

	Untestable []int
	Aborted    []int

	// ReducedFaultIDs is Detected after fault-equivalence (already baked
	// into netlist.RepFaultList) and dominance reduction (spec §4.11).
	ReducedFaultIDs []int

	DTPGStats   dtpg.Stats
	ReduceStats reducer.Stats
}

// Run drives DTPG over nl's representative fault list using dcfg, drops
// additional faults each generated vector also detects, and reduces the
// surviving detected set using ropts. dcfg.MultiThread selects
// dtpg.RunMultiThread over dtpg.Run.
func Run(nl *netlist.Netlist, dcfg *dtpg.Config, ropts ...reducer.Option) (*Result, error) {
	fs := fsim.New(nl)
	faultIDs := append([]int(nil), nl.RepFaultList()...)

	res := &Result{Vectors: make(map[int]*tvec.TestVector)}

	cb := dtpg.Callbacks{
		OnDetect: func(id int, tv *tvec.TestVector) {
			res.Detected = append(res.Detected, id)
			res.Vectors[id] = tv
			fs.SetSkip(id)
		},
		OnUntest: func(id int) { res.Untestable = append(res.Untestable, id) },
		OnAbort:  func(id int) { res.Aborted = append(res.Aborted, id) },
	}

	runFn := dtpg.Run
	if dcfg.MultiThread {
		runFn = dtpg.RunMultiThread
	}

	stats, err := runFn(nl, faultIDs, dcfg, cb)
	if err != nil {
		return nil, err
	}
	res.DTPGStats = stats

	// Fault dropping (spec §4.7): every vector that detected its own
	// target fault may also detect other still-undetected faults; record
	// those without spending another SAT call.
	for _, id := range append([]int(nil), res.Detected...) {
		tv := res.Vectors[id]
		fs.SPPFP(tv, func(fault int, _ fsim.DiffBits) {
			if _, already := res.Vectors[fault]; already {
				return
			}
			res.Vectors[fault] = tv
			res.Detected = append(res.Detected, fault)
			fs.SetSkip(fault)
		})
	}

	red := reducer.New(nl, ropts...)
	survivors, rstats, err := red.Reduce(res.Detected)
	if err != nil {
		return nil, err
	}
	res.ReducedFaultIDs = survivors
	res.ReduceStats = rstats

	return res, nil
}
