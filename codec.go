package unzipr

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression methods beyond store and deflate, as assigned by the zip APPNOTE.
const (
	methodBzip2 uint16 = 12
	methodZstd  uint16 = zstd.ZipMethodWinZip
	methodXz    uint16 = 95
)

// registerDecompressors makes entries compressed with bzip2, zstd, or xz readable from the given archive, and swaps
// the deflate decompressor for klauspost's.
//
// Store is always available. Entries using any other method fail when opened, not when the archive is.
func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)
	zr.RegisterDecompressor(methodBzip2, newBzip2Reader)
	zr.RegisterDecompressor(methodZstd, zstd.ZipDecompressor())
	zr.RegisterDecompressor(methodXz, newXzReader)
}

func newBzip2Reader(r io.Reader) io.ReadCloser {
	br, err := bzip2.NewReader(r, nil)
	if err != nil {
		return errReadCloser{fmt.Errorf("create bzip2 reader error: %w", err)}
	}

	return br
}

func newXzReader(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return errReadCloser{fmt.Errorf("create xz reader error: %w", err)}
	}

	return io.NopCloser(xr)
}

// errReadCloser defers a decompressor construction error to the first Read.
type errReadCloser struct {
	err error
}

func (e errReadCloser) Read([]byte) (int, error) {
	return 0, e.err
}

func (e errReadCloser) Close() error {
	return nil
}
