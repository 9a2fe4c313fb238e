// Package report writes analysis results as text, JSON and CSV.
//
// A Report bundles everything computed for one trace map: summary, length
// and node statistics and the rose histogram. WriteText prints it for a
// terminal, WriteJSON for machines. WriteSegmentsCSV lists per-segment
// geometry, one row per segment in input order.
package report
