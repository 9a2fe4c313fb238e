// Package detection extracts straight fracture-trace segments from images.
//
// A trace image is a scan or export of a fracture map drawn as dark lines on
// a light background. DetectSegments finds the lines and returns them as a
// fracture.TraceMap that the analysis package can measure like any loaded
// segment file.
//
// # Algorithm Overview
//
//  1. Ink mask: grayscale, optional Gaussian blur and threshold (see the
//     imaging package). Large images are first downsampled.
//  2. Hough transform: every ink pixel votes for the (rho, theta) lines
//     through it at 1° resolution.
//  3. Peak picking: local maxima above half the minimum length, strongest
//     first.
//  4. Run extraction: ink pixels near each peak line are ordered along it
//     and split wherever the gap exceeds MaxGap, so collinear fractures stay
//     separate. Pixels are claimed by the first run that uses them.
//  5. Refinement: each run's direction and position are re-fitted by
//     principal axis (gonum stat), and its extreme pixels become the
//     segment endpoints.
//
// # Coordinate System
//
// Segment coordinates are pixel positions in the source image: origin at
// the top-left, X rightward, Y downward. Orientation measured on such data
// runs clockwise on screen, matching the rose diagram convention.
//
// # Limitations
//
// Curved traces are returned as one or more chords. Crossing fractures are
// handled because each Hough peak only gathers pixels close to its own
// line, but heavy hatching or text on the scan produces spurious segments;
// raise MinLength or crop the image first.
package detection
