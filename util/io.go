package util

import (
	"context"
	"fmt"
	"io"
)

// DefaultBufferSize is the size of the buffer CopyBufferWithContext allocates if none is given.
const DefaultBufferSize = 32 * 1024

// CopyBufferWithContext is a variant of io.CopyBuffer that checks for context cancellation after every write.
//
// If buf is nil, a new buffer of DefaultBufferSize is allocated. Returns the number of bytes written to dst.
func CopyBufferWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (written int64, err error) {
	if buf == nil {
		buf = make([]byte, DefaultBufferSize)
	}

	var nr, nw int
	var rerr error
	for {
		nr, rerr = src.Read(buf)

		if nr > 0 {
			switch nw, err = dst.Write(buf[0:nr]); {
			case err != nil:
				return written, err
			case nw < nr:
				return written, io.ErrShortWrite
			case nr != nw:
				return written, fmt.Errorf("invalid write: expected to write %d bytes, wrote %d bytes instead", nr, nw)
			}

			written += int64(nw)

			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}
		}

		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
