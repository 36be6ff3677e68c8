// Package pipeline drives the external COS time-tag split and re-extraction
// chain (splittag, x1dcorr and segment concatenation).
//
// The chain itself is a black box behind [Pipeline]. [Command] runs it as an
// executable; [Func] adapts a plain function, which is how tests and
// alternative back ends plug in.
package pipeline
