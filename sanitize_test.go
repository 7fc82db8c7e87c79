package unzipr

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafePath(t *testing.T) {
	root := filepath.FromSlash("/tmp/test/test2")

	tests := []struct {
		name string
		want string
	}{
		{name: "../../../etc/passwd", want: "etc/passwd"},
		{name: "../../etc/passwd", want: "etc/passwd"},
		{name: "/etc/passwd", want: "etc/passwd"},
		{name: "test/test/../test.txt", want: "test/test/test.txt"},
		{name: "test/./test.txt", want: "test/test.txt"},
		{name: "test//test.txt", want: "test/test.txt"},
		{name: `..\..\windows\system32`, want: "windows/system32"},
		{name: `C:\windows\system32`, want: "windows/system32"},
		{name: "C:/windows", want: "windows"},
		{name: `../a\..\b/./c`, want: "a/b/c"},
		{name: "test/", want: "test"},
		{name: "..a/b..", want: "..a/b.."},
		{name: "../", want: ""},
		{name: "/", want: ""},
		{name: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), SafeRel(tt.name))
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.want)), SafePath(root, tt.name))
		})
	}
}

func TestSafePath_NeverEscapesRoot(t *testing.T) {
	root := filepath.FromSlash("/tmp/dest")
	segments := []string{"..", ".", "", "a", "/", `\`, "C:", "b..", "...", "../..", `..\`}

	// every combination of up to three segments joined by either separator.
	var names []string
	for _, a := range segments {
		for _, b := range segments {
			for _, c := range segments {
				names = append(names, a+"/"+b+"/"+c, a+`\`+b+`\`+c, a+b+c)
			}
		}
	}

	for _, name := range names {
		got := SafePath(root, name)
		rel, err := filepath.Rel(root, got)
		if assert.NoErrorf(t, err, "Rel(%s) error", got) {
			assert.Falsef(t, rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)), "SafePath(%s, %q) = %s escapes root", root, name, got)
		}
	}
}
