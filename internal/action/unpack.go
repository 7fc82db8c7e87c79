package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/nguyengg/unzipr"
	"github.com/nguyengg/unzipr/internal"
	"github.com/nguyengg/unzipr/util"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// Unpack extracts every entry of the archive at the end of Chain into Dir.
//
// Entries are processed in archive order. Existing files are never overwritten, and files that were written before a
// failure are left on disk.
type Unpack struct {
	Archive string
	Chain   []string
	Dir     string

	opts *Options
}

var _ Action = &Unpack{}

// NewUnpack creates an Unpack from args in format [archive, inner...]; every inner name is part of the chain.
func NewUnpack(dir string, args []string, optFns ...func(*Options)) (*Unpack, error) {
	archive, chain, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	return &Unpack{Archive: archive, Chain: chain, Dir: dir, opts: newOptions(optFns)}, nil
}

func (u *Unpack) Exec(ctx context.Context) error {
	a, err := unzipr.Resolve(ctx, u.Archive, u.Chain, u.opts.OpenOptions...)
	if err != nil {
		return err
	}

	fsys := u.opts.Filesystem
	if fsys == nil {
		fsys = newOSFilesystem(u.Dir)
	}

	x := &extractor{
		fs:        fsys,
		root:      u.Dir,
		buf:       make([]byte, util.DefaultBufferSize),
		logger:    u.opts.Logger,
		sometimes: rate.Sometimes{Interval: 5 * time.Second},
	}

	n := a.Len()
	var size uint64
	for i := range n {
		size += a.Entry(i).Size()
	}

	x.logger.Printf(`extracting %d entries (%s) to "%s"`, n, humanize.Bytes(size), u.Dir)

	if u.opts.ProgressBar {
		x.bar = internal.DefaultBytes(int64(size), "extracting")
		defer x.bar.Close()
	}

	for i := range n {
		select {
		case <-ctx.Done():
			return unzipr.WrapIO("", ctx.Err())
		default:
		}

		if err = x.extract(ctx, a.Entry(i)); err != nil {
			return err
		}

		x.sometimes.Do(func() {
			x.logger.Printf(`[%d/%d] extracted "%s"`, i+1, n, a.Entry(i).Name())
		})
	}

	x.logger.Printf("extracted %d files (%s)", x.files, humanize.Bytes(uint64(x.written)))
	return nil
}

type extractor struct {
	fs        billy.Filesystem
	root      string
	buf       []byte
	bar       *progressbar.ProgressBar
	logger    *log.Logger
	sometimes rate.Sometimes

	files   int
	written int64
}

func (x *extractor) extract(ctx context.Context, e *unzipr.Entry) error {
	rel := unzipr.SafeRel(e.Name())
	if rel == "" {
		x.logger.Printf(`skipping "%s" since it resolves to the destination directory itself`, e.Name())
		return nil
	}

	path := filepath.Join(x.root, rel)

	if e.IsDir() {
		if err := x.fs.MkdirAll(rel, 0755); err != nil {
			return &unzipr.Error{Kind: unzipr.KindCannotCreateDirectory, Path: path, Err: err}
		}

		return nil
	}

	switch _, err := x.fs.Lstat(rel); {
	case err == nil:
		return &unzipr.Error{Kind: unzipr.KindTargetAlreadyExists, Path: path}
	case !errors.Is(err, fs.ErrNotExist):
		return &unzipr.Error{Kind: unzipr.KindCannotCreateFile, Path: path, Err: err}
	}

	if dir := filepath.Dir(rel); dir != "." {
		if err := x.fs.MkdirAll(dir, 0755); err != nil {
			return &unzipr.Error{Kind: unzipr.KindCannotCreateDirectory, Path: filepath.Join(x.root, dir), Err: err}
		}
	}

	w, err := x.fs.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &unzipr.Error{Kind: unzipr.KindTargetAlreadyExists, Path: path, Err: err}
		}

		return &unzipr.Error{Kind: unzipr.KindCannotCreateFile, Path: path, Err: err}
	}

	r, err := e.Open()
	if err != nil {
		_ = w.Close()
		return err
	}

	var dst io.Writer = w
	if x.bar != nil {
		dst = io.MultiWriter(w, x.bar)
	}

	written, err := util.CopyBufferWithContext(ctx, dst, r, x.buf)
	_ = r.Close()
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return unzipr.WrapIO(path, fmt.Errorf("write to file error: %w", err))
	}

	x.files++
	x.written += written

	return x.chmod(e, rel, path)
}

// chmoder is implemented by filesystems that can change file permissions.
type chmoder interface {
	Chmod(name string, mode os.FileMode) error
}

// chmod applies the entry's permission bits if the entry has any and both platform and filesystem support them.
func (x *extractor) chmod(e *unzipr.Entry, rel, path string) error {
	mode, ok := e.Mode()
	if !ok || !supportsPermissions {
		return nil
	}

	ch, ok := x.fs.(chmoder)
	if !ok {
		return nil
	}

	if err := ch.Chmod(rel, mode); err != nil {
		return &unzipr.Error{Kind: unzipr.KindCannotSetPermissions, Mode: mode, Path: path, Err: err}
	}

	return nil
}
