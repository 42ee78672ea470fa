package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceExt is the extension of the units compiled from a source folder.
const SourceExt = ".cpp"

// collectSources lists the direct entries of folder ending in SourceExt.
// Matching is case-sensitive and nothing is opened.
func collectSources(folder string) ([]string, error) {
	if _, err := os.Stat(folder); err != nil {
		return nil, fmt.Errorf("reading source folder: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(folder), "*"+SourceExt)
	if err != nil {
		return nil, fmt.Errorf("while globbing %s: %w", folder, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		absPath, err := filepath.Abs(filepath.Join(folder, match))
		if err != nil {
			return nil, fmt.Errorf("while globbing %s: %w", match, err)
		}
		files = append(files, absPath)
	}
	return files, nil
}
