// Package reducer_test provides a runnable example demonstrating the
// reduction pipeline over a small sequential netlist.
package reducer_test

import (
	"fmt"

	"github.com/yusuke-matsunaga/druid-sub002/fixtures"
	"github.com/yusuke-matsunaga/druid-sub002/reducer"
)

// ExampleReducer_Reduce collapses a representative fault list down to a
// dominance-reduced survivor set. Each deletion is attributed to exactly
// one phase, so the per-phase counters and the survivor count always add
// back up to the initial fault count.
func ExampleReducer_Reduce() {
	nl := fixtures.S27Like()
	ids := nl.RepFaultList()

	r := reducer.New(nl,
		reducer.WithLoopLimit(2),
		reducer.WithFaultAnalysis(true),
	)
	survivors, stats, err := r.Reduce(ids)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	accounted := stats.Initial ==
		stats.FFRReduced+stats.TrivialReduced+stats.GlobalReduced+stats.Survivors
	fmt.Printf("someSurvive=%v noneInvented=%v accounted=%v\n",
		len(survivors) > 0, len(survivors) <= stats.Initial, accounted)
	// Output: someSurvive=true noneInvented=true accounted=true
}
