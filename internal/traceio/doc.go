// Package traceio reads and writes fracture trace maps in the plain text
// format used by FracPaQ.
//
// # Format
//
// One record per line. Values are separated by whitespace, commas, or both.
// Blank lines and lines whose first non-space character is '#' are ignored.
//
// Segment files (the default) hold exactly four numbers per line:
//
//	# x1 y1 x2 y2
//	10.0 12.5 48.2 30.1
//	10,40,22,18
//
// Polyline files (Options.Polylines) hold an even number of at least four
// numbers per line, x1 y1 x2 y2 ... xn yn. Each line becomes one trace whose
// consecutive points form its segments; repeated consecutive points are
// dropped.
//
// # Malformed Lines
//
// A line with the wrong number of values, a token that is not a number, or a
// NaN/Inf value is malformed and reported as a *LineError wrapping
// ErrMalformedLine. In strict mode (the default) the first malformed line
// fails the whole read; with Options.Lenient the line is skipped and the
// error returned in Result.Warnings. Either way every TraceMap handed out by
// this package has finite coordinates only.
//
// Empty input is not an error: it yields an empty TraceMap.
package traceio
