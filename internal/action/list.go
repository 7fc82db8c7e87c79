package action

import (
	"bufio"
	"context"

	"github.com/nguyengg/unzipr"
)

// List prints the name of every entry of the archive at the end of Chain, one per line, in archive order.
type List struct {
	Archive string
	Chain   []string

	opts *Options
}

var _ Action = &List{}

// NewList creates a List from args in format [archive, inner...]; every inner name is part of the chain.
func NewList(args []string, optFns ...func(*Options)) (*List, error) {
	archive, chain, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	return &List{Archive: archive, Chain: chain, opts: newOptions(optFns)}, nil
}

func (l *List) Exec(ctx context.Context) error {
	a, err := unzipr.Resolve(ctx, l.Archive, l.Chain, l.opts.OpenOptions...)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(l.opts.Stdout)
	for _, name := range a.Names() {
		if _, err = w.WriteString(name + "\n"); err != nil {
			return unzipr.WrapIO("", err)
		}
	}

	if err = w.Flush(); err != nil {
		return unzipr.WrapIO("", err)
	}

	return nil
}
