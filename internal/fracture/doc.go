// Package fracture defines the value types for digitised fracture traces.
//
// A fracture trace map is a set of straight line segments measured in a 2-D
// plane, usually the pixel space of a photograph or the map coordinates of a
// field survey. Segments that belong to the same mapped fracture are grouped
// into a Trace; a file of independent segments yields one Trace per segment.
//
// # Coordinate System
//
// Coordinates are plain real numbers with no implied orientation of the Y
// axis. Data digitised from images uses the image convention (Y increases
// downward); survey data usually has Y increasing northward. Orientation
// conventions are handled by the analysis package, not here.
//
// # Immutability
//
// Segment is a comparable value type. TraceMap keeps its slices private and
// returns copies from its accessors, so a TraceMap handed to several
// goroutines can be read concurrently without synchronisation.
package fracture
