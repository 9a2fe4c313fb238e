package cli

import (
	"fmt"
	"io"
)

// Warnf writes a warning line to dst unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "warning: "+format+"\n", a...)
}
