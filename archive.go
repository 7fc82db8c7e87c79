package unzipr

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mholt/archives"
)

// Host systems recorded in the upper byte of zip.FileHeader.CreatorVersion that store unix permission bits.
const (
	creatorUnix   = 3
	creatorMacOSX = 19
)

// Archive is a zip archive whose contents are fully held in memory.
//
// An Archive is not safe for concurrent use.
type Archive struct {
	label string
	zr    *zip.Reader
}

// OpenBytes parses data as a zip archive.
//
// The label identifies the bytes in error messages; it is the file path for archives opened with OpenFile, or the
// member name for archives nested inside another archive. Any structural failure returns a KindNotAnArchive error.
func OpenBytes(label string, data []byte) (*Archive, error) {
	// insecure names are not a structural problem; SafePath deals with them when unpacking.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, &Error{Kind: KindNotAnArchive, Path: label, Hint: identify(data), Err: err}
	}

	registerDecompressors(zr)

	return &Archive{label: label, zr: zr}, nil
}

// identify returns the extension of the format that data looks like if it is recognisably some other archive or
// compression format. Empty string is returned otherwise.
func identify(data []byte) string {
	format, _, err := archives.Identify(context.Background(), "", bytes.NewReader(data))
	if err != nil {
		return ""
	}

	if ext := format.Extension(); ext != ".zip" {
		return ext
	}

	return ""
}

// Label returns the identifying label given to OpenBytes.
func (a *Archive) Label() string {
	return a.label
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int {
	return len(a.zr.File)
}

// Entry returns the entry at index i, 0 <= i < Len.
func (a *Archive) Entry(i int) *Entry {
	return &Entry{f: a.zr.File[i]}
}

// Names returns the name of every entry in the order they appear in the archive's central directory.
func (a *Archive) Names() []string {
	names := make([]string, len(a.zr.File))
	for i, f := range a.zr.File {
		names[i] = f.Name
	}

	return names
}

// Lookup returns the first entry whose name is exactly the given name.
//
// No normalisation is done on either side; "a/b.txt" does not match "./a/b.txt".
func (a *Archive) Lookup(name string) (*Entry, error) {
	for _, f := range a.zr.File {
		if f.Name == name {
			return &Entry{f: f}, nil
		}
	}

	return nil, &Error{Kind: KindEntryNotFound, Path: name}
}

// ReadFile returns the decompressed contents of the first entry with the given name.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	e, err := a.Lookup(name)
	if err != nil {
		return nil, err
	}

	return readAll(e)
}

// Entry is a single file or directory in an Archive.
type Entry struct {
	f *zip.File
}

// Name returns the full name of the entry as stored in the archive.
func (e *Entry) Name() string {
	return e.f.Name
}

// IsDir returns true if the entry's name ends with "/", or with "\" as written by some Windows tools.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.f.Name, "/") || strings.HasSuffix(e.f.Name, `\`)
}

// Size returns the uncompressed size of the entry.
func (e *Entry) Size() uint64 {
	return e.f.UncompressedSize64
}

// Mode returns the unix permission bits of the entry, including the setuid, setgid, and sticky bits.
//
// The boolean is false if the archive was not created on a unix-like host or did not record any permission bits.
func (e *Entry) Mode() (os.FileMode, bool) {
	switch e.f.CreatorVersion >> 8 {
	case creatorUnix, creatorMacOSX:
	default:
		return 0, false
	}

	if e.f.ExternalAttrs>>16 == 0 {
		return 0, false
	}

	mode := e.f.Mode()
	return mode.Perm() | mode&(os.ModeSetuid|os.ModeSetgid|os.ModeSticky), true
}

// Open returns a reader of the entry's decompressed contents. Caller must close it.
func (e *Entry) Open() (io.ReadCloser, error) {
	r, err := e.f.Open()
	if err != nil {
		return nil, WrapIO(e.f.Name, err)
	}

	return r, nil
}
