// Package fsutil confines URL paths to a served filesystem root.
package fsutil

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a resolved path would fall outside the
// served root. Callers report it as not-found so the filesystem layout is
// not leaked.
var ErrPathEscape = errors.New("path escapes served root")

// CleanRelPath normalizes a user-supplied URL path ("", ".", "/a/b", "a//b",
// "a/../b") into a slash-separated relative path with no leading slash.
// The empty string means the root itself.
func CleanRelPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "." || p == "/" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	// Force absolute before cleaning so ".." segments cannot climb.
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// ResolveWithinRoot maps a URL path to an absolute filesystem path under
// root. It fails with ErrPathEscape when the canonical result is not root
// itself or a descendant of it.
func ResolveWithinRoot(root, urlPath string) (string, error) {
	if strings.Contains(urlPath, "\x00") {
		return "", ErrPathEscape
	}
	rel := CleanRelPath(urlPath)
	rootClean := filepath.Clean(root)
	if rel == "" {
		return rootClean, nil
	}
	abs := filepath.Clean(filepath.Join(rootClean, filepath.FromSlash(rel)))
	if abs != rootClean && !strings.HasPrefix(abs, rootClean+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return abs, nil
}
