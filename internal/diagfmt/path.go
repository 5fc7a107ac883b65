package diagfmt

import (
	"path/filepath"

	"cobolfront/internal/diag"
	"cobolfront/internal/source"
)

func formatPath(uri string, mode PathMode, baseDir string) string {
	path := source.URIToPath(uri)
	if path == "" {
		return uri
	}
	switch mode {
	case PathModeAbsolute:
		return filepath.ToSlash(path)
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		return diag.DisplayPath(uri, baseDir)
	default:
		if baseDir == "" {
			if wd, err := filepath.Abs("."); err == nil {
				baseDir = wd
			}
		}
		return diag.DisplayPath(uri, baseDir)
	}
}
