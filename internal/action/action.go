// Package action implements the three things unzipr can do with the archive at the end of a chain: list its entries,
// pipe one of its entries to stdout, or unpack all of its entries to a directory.
package action

import (
	"context"
	"io"
	"log"
	"os"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/nguyengg/unzipr"
	"github.com/nguyengg/unzipr/internal"
)

// Action is a request that has been fully parsed from the command line and is ready to execute.
type Action interface {
	// Exec performs the action once.
	Exec(ctx context.Context) error
}

// Options customises all actions.
type Options struct {
	// Stdout is where List writes names and Pipe writes bytes.
	//
	// Default to os.Stdout.
	Stdout io.Writer

	// Logger is used only by Unpack. Pipe and List never log.
	//
	// Default to a logger that discards everything.
	Logger *log.Logger

	// ProgressBar enables a progress bar on stderr for Unpack.
	ProgressBar bool

	// Filesystem is the destination for Unpack, rooted at the destination directory.
	//
	// Default to an osfs filesystem rooted at Unpack.Dir.
	Filesystem billy.Filesystem

	// OpenOptions is passed to unzipr.Resolve, e.g. to provide an S3 client.
	OpenOptions []func(*unzipr.Options)
}

func newOptions(optFns []func(*Options)) *Options {
	opts := &Options{
		Stdout: os.Stdout,
		Logger: internal.NewLogger(false, ""),
	}
	for _, fn := range optFns {
		fn(opts)
	}

	return opts
}

// splitArgs splits the flat argument list into the outer archive and the names after it.
func splitArgs(args []string) (archive string, names []string, err error) {
	if len(args) == 0 {
		return "", nil, &unzipr.Error{Kind: unzipr.KindArchiveMissing}
	}

	return args[0], slices.Clone(args[1:]), nil
}
