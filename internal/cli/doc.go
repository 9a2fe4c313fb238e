// Package cli implements the fracpaq command line: flag parsing into a
// validated Options value and the batch pipeline that loads, analyses,
// plots and reports each input file.
//
// Inputs are processed concurrently, bounded by Options.Jobs, and reported
// in the order given on the command line.
package cli
