package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

const autoPathLimit = 48

// displayPath renders a file path according to the mode. Paths come out of
// the FileSet already slash-normalized.
func displayPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		return filepath.ToSlash(abs)
	case PathModeRelative:
		cwd, err := os.Getwd()
		if err != nil {
			return path
		}
		rel, err := filepath.Rel(cwd, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return path
		}
		return filepath.ToSlash(rel)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if len(path) > autoPathLimit && filepath.IsAbs(path) {
			return filepath.Base(path)
		}
		return path
	}
}
