package action

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// osFilesystem is an osfs filesystem rooted at a directory that can also change file permissions.
type osFilesystem struct {
	billy.Filesystem
	root string
}

func newOSFilesystem(root string) *osFilesystem {
	return &osFilesystem{Filesystem: osfs.New(root), root: root}
}

// Chmod changes the mode of the named file, relative to the root.
func (f *osFilesystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(filepath.Join(f.root, name), mode)
}
