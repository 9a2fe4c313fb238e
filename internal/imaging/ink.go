package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// DefaultInkLevel is the gray level below which a pixel counts as ink.
const DefaultInkLevel = 128

// InkMask binarises img into a mask where ink pixels are 255 and background
// pixels are 0.
//
// Parameters:
//   - level: gray level (1-255); pixels strictly darker are ink. 0 selects
//     DefaultInkLevel.
//   - blurRadius: Gaussian blur radius applied before thresholding to close
//     small gaps in scanned lines. 0 disables blurring.
//
// The mask has the same bounds size as img with its origin at (0,0).
func InkMask(img image.Image, level uint8, blurRadius float64) *image.Gray {
	if level == 0 {
		level = DefaultInkLevel
	}

	var src image.Image = effect.Grayscale(img)
	if blurRadius > 0 {
		src = blur.Gaussian(src, blurRadius)
	}

	// Threshold keeps values >= its level, so invert to make dark ink
	// bright. A gray value v < level inverts to 255-v >= 256-level.
	return segment.Threshold(effect.Invert(src), uint8(256-int(level)))
}

// InkFraction returns the share of mask pixels that are ink.
func InkFraction(mask *image.Gray) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	ink := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				ink++
			}
		}
	}
	return float64(ink) / float64(total)
}

// Fit downsamples img so that neither side exceeds maxSide, returning the
// result and the factor by which coordinates were scaled (<= 1). Images
// that already fit, or maxSide <= 0, are returned unchanged with factor 1.
func Fit(img image.Image, maxSide int) (image.Image, float64) {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img, 1
	}
	fitted := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	return fitted, float64(fitted.Bounds().Dx()) / float64(b.Dx())
}
