// Package render draws fracture trace maps and rose diagrams.
//
// The main plots are:
//
//   - TraceMap draws every segment of a fracture.TraceMap at equal aspect
//     ratio inside labelled axes, optionally coloured by orientation and
//     overlaid with node markers.
//   - Rose draws an analysis.OrientationHistogram as a circular histogram.
//     Each axial bin is drawn twice, at θ and θ+180°, so the diagram is
//     centrally symmetric.
//
// For stress analyses, StressMap colours the trace map by one
// analysis.StressMeasure with a colour bar underneath, and Mohr draws the
// Mohr circle with the failure envelope and one point per segment.
//
// # Output Formats
//
// Raster formats (PNG, JPEG, GIF, TIFF, BMP) are rasterised with
// anti-aliasing by golang.org/x/image/vector onto a canvas created by
// github.com/disintegration/imaging, which also encodes the result. Labels
// use the fixed 7x13 bitmap face from golang.org/x/image/font/basicfont,
// which is ASCII only, so Greek letters and the degree sign are spelled out.
// SVG output is written with github.com/ajstarks/svgo.
//
// # Coordinate System
//
// By default data Y increases upward, as on a survey map. Data digitised
// from images has Y increasing downward; set FlipY on both plots to keep the
// trace map and rose diagram visually consistent with the source image.
// FlipX mirrors the X axis the same way.
package render
