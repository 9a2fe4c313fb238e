package analysis

import (
	"fmt"
	"strings"
)

// Reference selects the axis orientations are measured from.
type Reference int

const (
	// ReferenceX measures counter-clockwise from the positive X axis.
	ReferenceX Reference = iota
	// ReferenceNorth measures clockwise from the positive Y axis.
	ReferenceNorth
)

// DefaultReference is the axis used when no WithReference option is given.
const DefaultReference = ReferenceX

// DefaultBinCount gives 10° rose bins.
const DefaultBinCount = 18

// String returns "x" or "north".
func (r Reference) String() string {
	switch r {
	case ReferenceX:
		return "x"
	case ReferenceNorth:
		return "north"
	default:
		return fmt.Sprintf("Reference(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reference) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reference) UnmarshalText(b []byte) error {
	ref, err := ParseReference(string(b))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseReference parses "x" (also "east") or "north" (also "azimuth").
func ParseReference(s string) (Reference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "east", "":
		return ReferenceX, nil
	case "north", "azimuth", "n":
		return ReferenceNorth, nil
	}
	return 0, fmt.Errorf("%w: unknown reference axis %q", ErrInvalidParameter, s)
}

type config struct {
	weightByLength bool
	ref            Reference
}

// Option configures RoseHistogram, Summarize and MapGeometry.
type Option func(*config)

func newConfig(opts ...Option) config {
	c := config{weightByLength: true, ref: DefaultReference}
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return c
}

// WithLengthWeighting chooses between adding each segment's length to its bin
// (on, the default) and adding 1 (a plain frequency count).
func WithLengthWeighting(on bool) Option {
	return func(c *config) { c.weightByLength = on }
}

// WithReference sets the axis orientations are measured from.
func WithReference(ref Reference) Option {
	return func(c *config) { c.ref = ref }
}
