package visit_test

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/visit"
)

func ExampleSplitWindows() {
	start := 2457000.5
	for _, w := range visit.SplitWindows(start, start+1500/visit.SecondsPerDay, 1200, 3) {
		fmt.Printf("%.0f-%.0f s\n", (w.StartJD-start)*visit.SecondsPerDay, (w.EndJD-start)*visit.SecondsPerDay)
	}
	// Output:
	// 0-700 s
	// 400-1100 s
	// 800-1500 s
}
