package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// Ext is the file extension of template sources.
const Ext = ".tpl"

// ErrTemplateNotFound is matched by errors.Is for any TemplateNotFoundError.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateNotFoundError reports a template that no layer could read.
type TemplateNotFoundError struct {
	Name  string
	Cause error // last underlying error, if any
}

func (e *TemplateNotFoundError) Error() string {
	if e.Cause != nil && !errors.Is(e.Cause, fs.ErrNotExist) {
		return fmt.Sprintf("template %q could not be read: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("template %q not found\nHint: run 'crudgen templates' to list available templates", e.Name)
}

// Is matches ErrTemplateNotFound.
func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrTemplateNotFound }

func (e *TemplateNotFoundError) Unwrap() error { return e.Cause }

// Source reads named template sources.
type Source interface {
	ReadTemplate(name string) (string, error)
}

// Loader reads templates from a stack of file systems. Earlier layers
// shadow later ones, so a user directory placed first overrides the
// embedded defaults file by file.
type Loader struct {
	layers []fs.FS
}

// NewLoader creates a loader over the given layers. Nil layers are skipped.
func NewLoader(layers ...fs.FS) *Loader {
	l := &Loader{}
	for _, fsys := range layers {
		if fsys != nil {
			l.layers = append(l.layers, fsys)
		}
	}
	return l
}

// DirLayer returns a layer for dir, or nil when dir is empty or missing.
func DirLayer(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

// ReadTemplate returns the source of the named template, e.g. "view.add"
// reads "view.add.tpl" from the first layer that has it.
func (l *Loader) ReadTemplate(name string) (string, error) {
	file := name
	if !strings.HasSuffix(file, Ext) {
		file += Ext
	}

	var cause error
	for _, fsys := range l.layers {
		b, err := fs.ReadFile(fsys, file)
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) || cause == nil {
			cause = err
		}
	}
	return "", &TemplateNotFoundError{Name: name, Cause: cause}
}

// Load reads and parses the named template.
func (l *Loader) Load(name string) (*Template, error) {
	src, err := l.ReadTemplate(name)
	if err != nil {
		return nil, err
	}
	return Parse(src, strings.TrimSuffix(name, Ext)+Ext), nil
}

// Names lists the templates available across all layers, sorted.
func (l *Loader) Names() ([]string, error) {
	seen := make(map[string]struct{})
	for _, fsys := range l.layers {
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), Ext)] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

var _ Source = (*Loader)(nil)
