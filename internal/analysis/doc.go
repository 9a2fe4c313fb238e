// Package analysis computes orientation and length statistics of fracture
// trace maps.
//
// It is the numerical core of fracpaq: given a fracture.TraceMap it derives
// per-segment geometry (length and orientation), rose-diagram histograms and
// summary statistics. Every function is pure: no package state, no I/O, and
// the same input always yields the same result, so calls on different maps
// may run concurrently without coordination.
//
// # Orientation
//
// A fracture trace has no direction, so orientations are axial and reported
// on the half circle [0°, 180°). A segment from A to B has exactly the same
// orientation as the segment from B to A.
//
// The angle is measured from a Reference axis:
//   - ReferenceX: counter-clockwise from the positive X axis (the default,
//     mathematical convention).
//   - ReferenceNorth: clockwise from the positive Y axis (geographic azimuth,
//     Y taken as north).
//
// # Degenerate Segments
//
// A segment whose endpoints coincide has zero length and no orientation. It
// is never an error: it is counted (SummaryStats.DegenerateCount) and left out
// of every length and orientation aggregate. Its SegmentGeometry carries an
// undefined Orientation instead of a made-up angle.
//
// # Circular Statistics
//
// Mean orientation is a circular mean over doubled angles,
// atan2(mean sin 2θ, mean cos 2θ) / 2, so that 1° and 179° average to ~0°
// rather than 90°.
//
// # Stress
//
// StressTendency resolves a two-dimensional far-field stress (σ1, σ2 and
// the azimuth of σ1, compressive positive) onto each segment and reports
// normal and shear stress, slip tendency, dilation tendency, fracture
// susceptibility and Coulomb failure. Angles here always use the north
// reference, whatever Reference the other statistics use.
//
// # Preconditions
//
// Coordinates are assumed finite. Loaders reject NaN and Inf before data
// reaches this package; Validate is available for callers that build maps
// themselves.
package analysis
