// Package render turns plot-ready series into image files.
//
// Analysis packages only produce (x, y, yerr) arrays as [Series]. A [Sink]
// consumes them; [File] draws them with gonum/plot and writes PNG, SVG, PDF
// or EPS depending on the file extension.
package render
