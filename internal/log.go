package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/nguyengg/unzipr/util"
)

// Prefix creates a consistent log prefix for the archive being worked on.
func Prefix(name string) string {
	return fmt.Sprintf(`"%s" - `, util.TruncateRightWithSuffix(filepath.Base(name), 30, "..."))
}

// NewLogger returns a logger that writes to stderr with the given prefix if verbose is true.
//
// If verbose is false, the returned logger discards everything so callers never need a nil check.
func NewLogger(verbose bool, prefix string) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}

	return log.New(os.Stderr, prefix, 0)
}
