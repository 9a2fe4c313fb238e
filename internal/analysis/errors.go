package analysis

import (
	"errors"
	"fmt"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

var (
	// ErrInvalidParameter is returned for out-of-range arguments, such as a
	// non-positive bin count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrPrecondition is returned by Validate when a trace map holds
	// non-finite coordinates.
	ErrPrecondition = errors.New("precondition violated")
)

// Validate checks that every coordinate of tm is finite. The other functions
// in this package do not call it.
func Validate(tm fracture.TraceMap) error {
	for i := 0; i < tm.Len(); i++ {
		if s := tm.Segment(i); !s.IsFinite() {
			return fmt.Errorf("%w: segment %d has non-finite coordinates %v", ErrPrecondition, i, s)
		}
	}
	return nil
}
