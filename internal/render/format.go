package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnknownFormat is returned for output formats that cannot be written.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output image format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	SVG  Format = "svg"
)

// ParseFormat parses a format name or file extension, with or without the
// leading dot ("png", ".jpg", "SVG").
func ParseFormat(s string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if ext == "svg" {
		return SVG, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return Format(strings.ToLower(f.String())), nil
}

// FormatFromPath derives the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Ext returns the canonical file extension including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/" + string(f)
}

// imagingFormat maps raster formats onto the imaging encoder's formats.
func (f Format) imagingFormat() (imaging.Format, error) {
	if f == SVG {
		return 0, fmt.Errorf("%w: svg is not a raster format", ErrUnknownFormat)
	}
	return imaging.FormatFromExtension(string(f))
}
