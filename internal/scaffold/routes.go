package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// AppendRoute appends line to the routes file at path unless the file
// already contains it. A missing file is created. It reports whether the
// line was added.
func AppendRoute(sink Sink, path, line string) (bool, error) {
	content, err := sink.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to read routes file: %w", err)
	}
	if strings.Contains(string(content), line) {
		return false, nil
	}

	updated := make([]byte, 0, len(content)+len(line)+1)
	updated = append(updated, content...)
	updated = append(updated, '\n')
	updated = append(updated, line...)
	if err := sink.WriteFile(path, updated); err != nil {
		return false, err
	}
	return true, nil
}
