package systematics

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/visit"
)

// CorrectVisit verifies and corrects every exposure of v, each against its
// own baseline. Exposures without splits fail with ErrMissingPrerequisite.
func CorrectVisit(v *visit.Visit, list line.List, degree int, verifyOpts []Option, correctOpts ...CorrectOption) (map[string]*Result, error) {
	out := make(map[string]*Result, len(v.Datasets))
	for _, name := range v.Datasets {
		splits := v.Splits[name]
		if len(splits) == 0 {
			return nil, fmt.Errorf("%w: %s has no splits", spectrum.ErrMissingPrerequisite, name)
		}
		series, err := Verify(splits, list, verifyOpts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res, err := Correct(v.Exposures[name], splits, series, series.Baseline(), degree, correctOpts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = res
	}
	return out, nil
}
