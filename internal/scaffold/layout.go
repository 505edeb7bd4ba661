package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/crudgen/internal/template"
)

// Layout maps a target name to its destination path pattern. Patterns are
// templates themselves, relative to the output base path, and use forward
// slashes: "resources/views/[[ model_plural ]]/add.blade.php".
type Layout map[string]string

// Destination renders the pattern for target and joins it with base.
func (l Layout) Destination(base, target string, data template.Data) (string, error) {
	pattern, ok := l[target]
	if !ok || strings.TrimSpace(pattern) == "" {
		return "", fmt.Errorf("no destination configured for target %q", target)
	}

	rel := strings.TrimSpace(template.Render(pattern, data))
	if strings.Contains(rel, "[[") {
		return "", fmt.Errorf("destination for %q has unresolved markers: %s", target, rel)
	}

	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("destination for %q is outside the base path: %s", target, rel)
	}
	return filepath.Join(base, rel), nil
}
