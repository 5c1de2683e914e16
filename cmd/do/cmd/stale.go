package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stale reports whether output is missing or older than any .go file under
// the given paths. Paths may be files or directories.
func Stale(output string, paths ...string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return true
	}
	built := outInfo.ModTime()

	stale := false
	for _, root := range paths {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
				return nil
			}
			info, err := d.Info()
			if err == nil && info.ModTime().After(built) {
				stale = true
				return filepath.SkipAll
			}
			return nil
		})
		if stale {
			return true
		}
	}
	return false
}

// isOlder reports whether output is missing or older than input.
func isOlder(output, input string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return true
	}
	inInfo, err := os.Stat(input)
	if err != nil {
		return false
	}
	return inInfo.ModTime().After(outInfo.ModTime())
}
