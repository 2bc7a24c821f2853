package fsutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"/a/b", "a/b"},
		{"a//b", "a/b"},
		{"a/./b", "a/b"},
		{"a/../b", "b"},
		{"../../a", "a"},
		{"..", ""},
		{`a\b`, "a/b"},
		{"  /docs  ", "docs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanRelPath(tt.in), "input %q", tt.in)
	}
}

func TestResolveWithinRootStaysInside(t *testing.T) {
	root := t.TempDir()

	for _, p := range []string{"/", "", "a.txt", "/docs/report.pdf", "docs/../a.txt", "a/./b"} {
		abs, err := ResolveWithinRoot(root, p)
		require.NoError(t, err, "path %q", p)
		rootClean := filepath.Clean(root)
		ok := abs == rootClean || strings.HasPrefix(abs, rootClean+string(filepath.Separator))
		assert.True(t, ok, "resolved %q -> %q escapes root", p, abs)
	}
}

func TestResolveWithinRootRejectsEscapes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "served")

	// Traversal that survives cleaning is impossible through CleanRelPath;
	// NUL bytes are rejected outright.
	_, err := ResolveWithinRoot(root, "a\x00b")
	assert.ErrorIs(t, err, ErrPathEscape)

	// ".." segments collapse to in-root paths rather than escaping.
	abs, err := ResolveWithinRoot(root, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), abs)
}

func TestResolveWithinRootRoot(t *testing.T) {
	root := t.TempDir()
	abs, err := ResolveWithinRoot(root, "/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), abs)
}
