package source

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ImplicitScheme marks documents that are injected boilerplate rather than
// user-authored files.
const ImplicitScheme = "implicit"

// IsImplicitURI reports whether uri points at injected boilerplate.
func IsImplicitURI(uri string) bool {
	return strings.HasPrefix(uri, ImplicitScheme+":")
}

// URIToPath converts a file:// URI into a local path. Other schemes yield "".
func URIToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

// PathToURI converts a local path into a file:// URI.
func PathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
