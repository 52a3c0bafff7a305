package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ErrTemplateNotFound is returned when no source provides a template.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed templates/*.html
var builtin embed.FS

// Builtin returns the templates shipped with the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// Sources is an ordered list of template locations. Lookup returns the
// first source that contains the requested template.
type Sources []fs.FS

// Lookup returns the source holding name.
func (s Sources) Lookup(name string) (fs.FS, error) {
	for _, src := range s {
		if src == nil {
			continue
		}
		if _, err := fs.Stat(src, name); err == nil {
			return src, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// ReadTemplate returns the text of name from the first source holding it.
func (s Sources) ReadTemplate(name string) ([]byte, error) {
	src, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(src, name)
}

// UserTemplateDir returns the per-user template directory,
// e.g. ~/.local/share/profilereport/templates.
func UserTemplateDir() string {
	return filepath.Join(xdg.DataHome, "profilereport", "templates")
}

// DefaultSources returns the standard search path: the override directory
// (when set), the per-user template directory (when it exists) and the
// built-in templates.
func DefaultSources(overrideDir string) Sources {
	var sources Sources
	if overrideDir != "" {
		sources = append(sources, os.DirFS(overrideDir))
	}
	if dir := UserTemplateDir(); isDir(dir) {
		sources = append(sources, os.DirFS(dir))
	}
	return append(sources, Builtin())
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
