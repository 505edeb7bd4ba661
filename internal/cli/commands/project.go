package commands

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/crudgen/internal/scaffold"
)

//go:embed all:templates
var projectFS embed.FS

// copyProjectTemplate copies an embedded project template to targetDir.
// Existing files are kept unless force is set.
func copyProjectTemplate(templateName, targetDir string, force bool) ([]string, error) {
	root := filepath.ToSlash(filepath.Join("templates", templateName))
	return copyFS(projectFS, root, targetDir, force)
}

// ejectTemplates copies the built-in scaffold templates to dir.
func ejectTemplates(dir string, force bool) ([]string, error) {
	return copyFS(scaffold.DefaultTemplates(), ".", dir, force)
}

// copyFS copies root of fsys into targetDir and returns the files written,
// relative to targetDir.
func copyFS(fsys fs.FS, root, targetDir string, force bool) ([]string, error) {
	var written []string

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return os.MkdirAll(targetDir, 0o750)
		}

		targetPath := filepath.Join(targetDir, renameSpecialFiles(relPath))

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0o750)
		}

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil // Skip existing files
			}
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(targetPath, content, 0o600); err != nil {
			return err
		}
		written = append(written, renameSpecialFiles(relPath))
		return nil
	})

	return written, err
}

// renameSpecialFiles handles files that need renaming (e.g., dotfiles).
func renameSpecialFiles(path string) string {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	switch base {
	case "gitignore":
		return filepath.Join(dir, ".gitignore")
	default:
		return path
	}
}
