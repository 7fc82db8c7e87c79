package action

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nguyengg/unzipr"
	"github.com/nguyengg/unzipr/internal/ziptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata creates test.zip and test-test.zip (containing test.zip) in a temporary directory.
func testdata(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	sample := ziptest.Sample(t)
	ziptest.WriteFile(t, dir, "test.zip", sample)
	ziptest.WriteFile(t, dir, "test-test.zip", ziptest.Build(t, ziptest.Nested("test.zip", sample)))
	ziptest.WriteFile(t, dir, "test.txt", []byte("hello, world!\n"))

	return dir
}

func withStdout(w *bytes.Buffer) func(*Options) {
	return func(opts *Options) {
		opts.Stdout = w
	}
}

func TestNewList(t *testing.T) {
	l, err := NewList([]string{"test_input_file"})
	require.NoError(t, err)
	assert.Equal(t, "test_input_file", l.Archive)
	assert.Empty(t, l.Chain)

	l, err = NewList([]string{"test_input_file", "inner_nested_file"})
	require.NoError(t, err)
	assert.Equal(t, []string{"inner_nested_file"}, l.Chain)

	_, err = NewList(nil)
	assert.ErrorIs(t, err, unzipr.ErrArchiveMissing)
}

func TestNewPipe(t *testing.T) {
	_, err := NewPipe([]string{"test_input_file"})
	assert.ErrorIs(t, err, unzipr.ErrUnpackTargetMissing)

	_, err = NewPipe(nil)
	assert.ErrorIs(t, err, unzipr.ErrArchiveMissing)

	p, err := NewPipe([]string{"test_input_file", "inner_nested_file"})
	require.NoError(t, err)
	assert.Equal(t, "test_input_file", p.Archive)
	assert.Empty(t, p.Chain)
	assert.Equal(t, "inner_nested_file", p.Target)

	p, err = NewPipe([]string{"outer.zip", "a.zip", "b.zip", "c.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.zip", "b.zip"}, p.Chain)
	assert.Equal(t, "c.txt", p.Target)
}

func TestNewUnpack(t *testing.T) {
	u, err := NewUnpack("out", []string{"outer.zip", "a.zip"})
	require.NoError(t, err)
	assert.Equal(t, "out", u.Dir)
	assert.Equal(t, "outer.zip", u.Archive)
	assert.Equal(t, []string{"a.zip"}, u.Chain)

	_, err = NewUnpack("out", nil)
	assert.ErrorIs(t, err, unzipr.ErrArchiveMissing)
}

// The argument list given to the constructors can be modified afterward without affecting the action.
func TestNew_CopiesArgs(t *testing.T) {
	args := []string{"outer.zip", "a.zip", "b.txt"}
	l, err := NewList(args)
	require.NoError(t, err)
	p, err := NewPipe(args)
	require.NoError(t, err)

	args[1], args[2] = "x", "y"
	assert.Equal(t, []string{"a.zip", "b.txt"}, l.Chain)
	assert.Equal(t, []string{"a.zip"}, p.Chain)
	assert.Equal(t, "b.txt", p.Target)
}

func TestList_Exec(t *testing.T) {
	dir := testdata(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "outer archive",
			args: []string{filepath.Join(dir, "test.zip")},
			want: "test/\ntest/test.txt\n",
		},
		{
			name: "nested archive",
			args: []string{filepath.Join(dir, "test-test.zip"), "test.zip"},
			want: "test/\ntest/test.txt\n",
		},
		{
			name: "outer of nested archive",
			args: []string{filepath.Join(dir, "test-test.zip")},
			want: "test.zip\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			l, err := NewList(tt.args, withStdout(&stdout))
			require.NoError(t, err)

			err = l.Exec(context.Background())
			require.NoErrorf(t, err, "Exec() error = %v", err)
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestList_Exec_Errors(t *testing.T) {
	dir := testdata(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing file", args: []string{filepath.Join(dir, "nope.zip")}, want: unzipr.ErrDoesNotExist},
		{name: "text file", args: []string{filepath.Join(dir, "test.txt")}, want: unzipr.ErrNotAnArchive},
		{name: "missing member", args: []string{filepath.Join(dir, "test.zip"), "missing_member"}, want: unzipr.ErrEntryNotFound},
		{name: "member not archive", args: []string{filepath.Join(dir, "test.zip"), "test/test.txt"}, want: unzipr.ErrNotAnArchive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			l, err := NewList(tt.args, withStdout(&stdout))
			require.NoError(t, err)

			err = l.Exec(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestPipe_Exec(t *testing.T) {
	dir := testdata(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "file in outer archive",
			args: []string{filepath.Join(dir, "test.zip"), "test/test.txt"},
			want: "hello, world!\n",
		},
		{
			name: "file in nested archive",
			args: []string{filepath.Join(dir, "test-test.zip"), "test.zip", "test/test.txt"},
			want: "hello, world!\n",
		},
		{
			name: "directory entry",
			args: []string{filepath.Join(dir, "test.zip"), "test/"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			p, err := NewPipe(tt.args, withStdout(&stdout))
			require.NoError(t, err)

			err = p.Exec(context.Background())
			require.NoErrorf(t, err, "Exec() error = %v", err)
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

// Piping a nested archive itself writes the archive's raw bytes rather than reinterpreting it.
func TestPipe_Exec_RawArchive(t *testing.T) {
	dir := testdata(t)

	var stdout bytes.Buffer
	p, err := NewPipe([]string{filepath.Join(dir, "test-test.zip"), "test.zip"}, withStdout(&stdout))
	require.NoError(t, err)
	require.NoError(t, p.Exec(context.Background()))

	assert.Equal(t, ziptest.Sample(t), stdout.Bytes())
}

func TestPipe_Exec_MissingTarget(t *testing.T) {
	dir := testdata(t)

	var stdout bytes.Buffer
	p, err := NewPipe([]string{filepath.Join(dir, "test-test.zip"), "test.zip", "nope.txt"}, withStdout(&stdout))
	require.NoError(t, err)

	err = p.Exec(context.Background())
	var zerr *unzipr.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, unzipr.KindEntryNotFound, zerr.Kind)
	assert.Equal(t, "nope.txt", zerr.Path)
	assert.Empty(t, stdout.String())
}
