package builder

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// IsStale reports whether archive must be rebuilt because folder changed.
//
// A missing or unreadable archive, or one dated in the future, is stale.
// Otherwise the archive is stale as soon as one direct entry of folder was
// modified after it. Entries whose modification time cannot be read, or lies
// in the future, are ignored, and so are entries named in skip. An error is
// only returned when folder cannot be listed; callers should then rebuild.
func IsStale(archive, folder string, now time.Time, skip ...string) (bool, error) {
	info, err := os.Stat(archive)
	if err != nil {
		return true, nil
	}
	archiveAge := now.Sub(info.ModTime())
	if archiveAge < 0 {
		return true, nil
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return true, err
	}
	return hasNewerEntry(entries, archiveAge, now, skip), nil
}

// hasNewerEntry stops at the first entry younger than archiveAge.
func hasNewerEntry(entries []fs.DirEntry, archiveAge time.Duration, now time.Time, skip []string) bool {
	for _, entry := range entries {
		if slices.Contains(skip, entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())
		if age < 0 {
			continue
		}
		if age < archiveAge {
			return true
		}
	}
	return false
}

// enclosingEntry returns the direct entry of folder that contains dir, or ""
// when dir is folder itself or lies outside it.
func enclosingEntry(folder, dir string) string {
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return ""
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absFolder, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first
}
