package dtpg

import (
	"context"
	"sync"

	"github.com/JekaMas/workerpool"

	"github.com/yusuke-matsunaga/druid-sub002/netlist"
	"github.com/yusuke-matsunaga/druid-sub002/tvec"
)

// newDriver builds a Driver for region r, picking EngineDriver or
// EncDriver per cfg.DriverType (spec §4.7's driver_type key). Both
// implementations answer the same FaultOp contract; this is the single
// switch point a caller needs to swap between them.
func newDriver(nl *netlist.Netlist, cfg *Config, r *region) (Driver, error) {
	switch cfg.DriverType {
	case DriverEngine, "":
		return newEngineDriver(nl, cfg, r)
	case DriverEnc:
		return newEncDriver(nl, cfg, r)
	default:
		return nil, ErrUnknownDriverType
	}
}

// record folds one status outcome into s's per-outcome counters.
func (s *Stats) record(status Status) {
	switch status {
	case Detected:
		s.Detected++
	case Untestable:
		s.Untestable++
	case Aborted:
		s.Aborted++
	}
}

// Run is the spec §6 dtpg_run entry point: it groups faultIDs into
// regions per cfg.GroupMode, builds one Driver per region, and calls
// FaultOp for every fault in program order, reporting outcomes through
// cb and returning aggregated Stats. Run ignores cfg.MultiThread; use
// RunMultiThread for the per-region fan-out path.
func Run(nl *netlist.Netlist, faultIDs []int, cfg *Config, cb Callbacks) (Stats, error) {
	regions, err := groupFaults(nl, faultIDs, cfg.GroupMode)
	if err != nil {
		return Stats{}, err
	}

	var total Stats
	for _, r := range regions {
		d, err := newDriver(nl, cfg, r)
		if err != nil {
			return total, err
		}

		var regionStats Stats
		for _, f := range r.faults {
			status, err := d.FaultOp(f.ID, cb)
			if err != nil {
				return total, err
			}
			regionStats.record(status)
		}
		regionStats.SatStats = d.SatStats()
		regionStats.Times = d.Timings()
		total.add(regionStats)
	}

	return total, nil
}

// RunMultiThread is Run's cfg.MultiThread path (spec §5): every region
// gets its own Driver (and therefore its own private StructEngine and SAT
// solver instance), submitted to a bounded workerpool sized cfg.Workers.
// The only cross-goroutine state is the Stats accumulator and cb itself,
// both serialised by a single mutex, matching spec §5's "fault-status map
// protected by a single mutex acquired briefly around each mutation".
func RunMultiThread(nl *netlist.Netlist, faultIDs []int, cfg *Config, cb Callbacks) (Stats, error) {
	regions, err := groupFaults(nl, faultIDs, cfg.GroupMode)
	if err != nil {
		return Stats{}, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool := workerpool.New(workers)

	var mu sync.Mutex
	var total Stats
	var firstErr error

	serialize := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	for _, r := range regions {
		r := r
		pool.Submit(context.Background(), func() error {
			wrappedCB := Callbacks{
				OnDetect: func(id int, tv *tvec.TestVector) {
					if cb.OnDetect != nil {
						serialize(func() { cb.OnDetect(id, tv) })
					}
				},
				OnUntest: func(id int) {
					if cb.OnUntest != nil {
						serialize(func() { cb.OnUntest(id) })
					}
				},
				OnAbort: func(id int) {
					if cb.OnAbort != nil {
						serialize(func() { cb.OnAbort(id) })
					}
				},
			}

			d, err := newDriver(nl, cfg, r)
			if err != nil {
				serialize(func() {
					if firstErr == nil {
						firstErr = err
					}
				})

				return nil
			}

			var regionStats Stats
			for _, f := range r.faults {
				status, err := d.FaultOp(f.ID, wrappedCB)
				if err != nil {
					serialize(func() {
						if firstErr == nil {
							firstErr = err
						}
					})

					return nil
				}
				regionStats.record(status)
			}
			regionStats.SatStats = d.SatStats()
			regionStats.Times = d.Timings()

			serialize(func() { total.add(regionStats) })

			return nil
		}, 0)
	}
	pool.StopWait()

	if firstErr != nil {
		return total, firstErr
	}

	return total, nil
}
