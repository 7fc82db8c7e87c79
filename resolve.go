package unzipr

import (
	"bytes"
	"context"
	"io"
)

// Resolve opens the outer archive then walks into the chain of nested archives named by chain.
//
// See OpenFile for the format of outer, and Walk for how chain is resolved.
func Resolve(ctx context.Context, outer string, chain []string, optFns ...func(*Options)) (*Archive, error) {
	a, err := OpenFile(ctx, outer, optFns...)
	if err != nil {
		return nil, err
	}

	return Walk(a, chain)
}

// Walk treats each name in chain as a nested archive, returning the archive at the end of the chain.
//
// Starting from a, the first name is looked up by exact name, its bytes fully read and reopened as an archive with the
// member name as label, then the next name is looked up in that archive, and so on. An empty chain returns a itself.
// Every name is reinterpreted as an archive, including the last one; reading a leaf file is up to the caller.
//
// Walk(a, [A, B]) is equivalent to Walk(Walk(a, [A]), [B]).
func Walk(a *Archive, chain []string) (*Archive, error) {
	for _, name := range chain {
		e, err := a.Lookup(name)
		if err != nil {
			return nil, err
		}

		data, err := readAll(e)
		if err != nil {
			return nil, err
		}

		// the parent is no longer referenced once the child's bytes have been copied out.
		if a, err = OpenBytes(name, data); err != nil {
			if zerr, ok := err.(*Error); ok {
				zerr.Nested = true
			}
			return nil, err
		}
	}

	return a, nil
}

// maxPrealloc caps how much of an entry's declared size is trusted when preallocating its buffer.
const maxPrealloc = 64 << 20

func readAll(e *Entry) ([]byte, error) {
	r, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	if size := e.Size(); size <= maxPrealloc {
		buf.Grow(int(size))
	}

	if _, err = io.Copy(&buf, r); err != nil {
		return nil, WrapIO(e.Name(), err)
	}

	return buf.Bytes(), nil
}
