// Package imaging loads digitised fracture-trace images and prepares them
// for segment detection.
//
// Trace images are scans or exports of hand-drawn fracture maps: dark ink
// lines on a light background. This package turns such an image into a
// binary ink mask that the detection package searches for straight lines.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Segments detected from an
// image inherit this convention, so trace maps made from images are usually
// plotted with a flipped Y axis.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, TIFF and BMP files through
// github.com/disintegration/imaging, applying the EXIF orientation tag so
// that phone photographs of field sketches come out upright. Decoded images
// are cached by path.
//
// # Ink Masks
//
// InkMask converts to grayscale, optionally smooths with a Gaussian blur and
// thresholds the result using github.com/anthonynsimon/bild. Pixels darker
// than the ink level become white (255) in the mask; everything else is
// black (0).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. InkMask and Fit allocate new images
// and never modify their input.
package imaging
