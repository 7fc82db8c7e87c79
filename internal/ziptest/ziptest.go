// Package ziptest builds zip archives in memory for tests.
package ziptest

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Compression methods that Build can write in addition to zip.Store and zip.Deflate.
const (
	Bzip2 uint16 = 12
	Zstd  uint16 = zstd.ZipMethodWinZip
	Xz    uint16 = 95
)

// File is an entry to be added to the archive.
type File struct {
	Name string
	Body []byte
	// Mode if non-zero is recorded as unix permission bits.
	Mode os.FileMode
	// Method default to zip.Deflate for files and zip.Store for directories.
	Method uint16
}

// Dir creates a directory entry; a trailing "/" is added to name if missing.
func Dir(name string) File {
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}

	return File{Name: name, Method: zip.Store}
}

// Text creates a deflated file entry with the given text as body.
func Text(name, body string) File {
	return File{Name: name, Body: []byte(body), Method: zip.Deflate}
}

// Nested creates a stored file entry whose body is another archive.
func Nested(name string, archive []byte) File {
	return File{Name: name, Body: archive, Method: zip.Store}
}

// Build writes the given files, in order, into a new zip archive and returns its bytes.
func Build(t testing.TB, files ...File) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(Zstd, zstd.ZipCompressor())
	w.RegisterCompressor(Xz, func(w io.Writer) (io.WriteCloser, error) {
		return &lazyXzWriter{w: w}, nil
	})
	w.RegisterCompressor(Bzip2, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, nil)
	})

	for _, f := range files {
		fh := &zip.FileHeader{Name: f.Name, Method: f.Method}
		if f.Mode != 0 {
			fh.SetMode(f.Mode)
		}

		fw, err := w.CreateHeader(fh)
		require.NoErrorf(t, err, `CreateHeader(%s) error = %v`, f.Name, err)

		_, err = fw.Write(f.Body)
		require.NoErrorf(t, err, `Write(%s) error = %v`, f.Name, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteFile writes data to a new file in dir and returns its path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoErrorf(t, os.WriteFile(path, data, 0644), `WriteFile(%s) error`, path)
	return path
}

// Sample returns the contents of the archive used throughout the tests: "test/" and "test/test.txt".
func Sample(t testing.TB) []byte {
	return Build(t, Dir("test/"), Text("test/test.txt", "hello, world!\n"))
}

// lazyXzWriter defers xz.NewWriter until the first Write or Close.
//
// xz.NewWriter writes the stream header immediately, but zip.Writer creates the compressor before it writes the local
// file header.
type lazyXzWriter struct {
	w  io.Writer
	xw *xz.Writer
}

func (l *lazyXzWriter) init() (err error) {
	if l.xw == nil {
		l.xw, err = xz.NewWriter(l.w)
	}
	return
}

func (l *lazyXzWriter) Write(p []byte) (int, error) {
	if err := l.init(); err != nil {
		return 0, err
	}
	return l.xw.Write(p)
}

func (l *lazyXzWriter) Close() error {
	if err := l.init(); err != nil {
		return err
	}
	return l.xw.Close()
}
