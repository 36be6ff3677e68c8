// Package visit groups the exposures of one HST visit and manages their
// time-tag splits.
//
// A Visit loads every dataset, recomputes count-based errors by default and
// can split each exposure into shorter sub-exposures through an external
// [pipeline.Pipeline], or pick up splits produced earlier with
// [Visit.AssignSplits]. Every split is stamped with its share of the parent
// exposure window (see [SplitWindows]).
package visit
