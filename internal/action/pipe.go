package action

import (
	"context"

	"github.com/nguyengg/unzipr"
	"github.com/nguyengg/unzipr/util"
)

// Pipe writes the raw bytes of Target, found in the archive at the end of Chain, to stdout.
//
// Pipe never logs anything since its output is meant to be piped into another program.
type Pipe struct {
	Archive string
	Chain   []string
	Target  string

	opts *Options
}

var _ Action = &Pipe{}

// NewPipe creates a Pipe from args in format [archive, inner..., target].
//
// The last name is the target leaf; the names between the archive and the target form the chain. Returns a
// KindUnpackTargetMissing error if there is no name after the archive.
func NewPipe(args []string, optFns ...func(*Options)) (*Pipe, error) {
	archive, names, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	n := len(names)
	if n == 0 {
		return nil, &unzipr.Error{Kind: unzipr.KindUnpackTargetMissing}
	}

	return &Pipe{Archive: archive, Chain: names[:n-1], Target: names[n-1], opts: newOptions(optFns)}, nil
}

func (p *Pipe) Exec(ctx context.Context) error {
	a, err := unzipr.Resolve(ctx, p.Archive, p.Chain, p.opts.OpenOptions...)
	if err != nil {
		return err
	}

	e, err := a.Lookup(p.Target)
	if err != nil {
		return err
	}

	r, err := e.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err = util.CopyBufferWithContext(ctx, p.opts.Stdout, r, nil); err != nil {
		return unzipr.WrapIO(p.Target, err)
	}

	return nil
}
