package unzipr

import (
	"path/filepath"
	"regexp"
	"strings"
)

// zip names should only use "/" but "\" shows up in archives created on Windows.
var sep = regexp.MustCompile(`[\\/]`)

// SafeRel converts an archive member name into a relative path that cannot escape whatever directory it is joined to.
//
// The name is split on both "/" and "\"; empty, ".", and ".." segments are dropped, as is a leading drive marker such
// as "C:". The remaining segments are joined with the OS separator. For example, "../../etc/passwd" and "/etc/passwd"
// both become "etc/passwd". The result is empty if nothing remains.
func SafeRel(name string) string {
	parts := sep.Split(name, -1)
	keep := make([]string, 0, len(parts))

	for i, p := range parts {
		switch {
		case p == "", p == ".", p == "..":
		case i == 0 && strings.HasSuffix(p, ":"):
		default:
			keep = append(keep, p)
		}
	}

	return filepath.Join(keep...)
}

// SafePath joins SafeRel(name) onto root.
//
// The returned path is always root itself or a descendant of root. If it is root itself, the name was made up entirely
// of traversal segments and callers should treat the entry as a no-op.
func SafePath(root, name string) string {
	return filepath.Join(root, SafeRel(name))
}
