package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeView(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "page.html", `<h1>{{app_title}}</h1><p><!-- greeting --></p><p>{{greeting}}</p>`)

	r := NewRenderer(dir, t.TempDir(), "My Files")
	out, err := r.Render("page.html", Context{Values: map[string]string{"greeting": "hello"}})
	require.NoError(t, err)
	assert.Equal(t, `<h1>My Files</h1><p>hello</p><p>hello</p>`, string(out))
}

func TestRenderConditionalBlocks(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "page.html",
		`<!-- IF_WRITE_PERMISSION --><form>upload</form><!-- END_IF_WRITE_PERMISSION --><table></table>`)

	r := NewRenderer(dir, t.TempDir(), "t")

	out, err := r.Render("page.html", Context{ShowWriteControls: true})
	require.NoError(t, err)
	assert.Equal(t, `<form>upload</form><table></table>`, string(out))

	out, err = r.Render("page.html", Context{ShowWriteControls: false})
	require.NoError(t, err)
	assert.Equal(t, `<table></table>`, string(out))
}

func TestRenderLogoBlock(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "page.html", `<!-- IF_LOGO --><img src="{{logo_path}}"><!-- END_IF_LOGO -->done`)

	staticRoot := t.TempDir()

	// No logo installed: the whole block disappears.
	r := NewRenderer(dir, staticRoot, "t")
	out, err := r.Render("page.html", Context{})
	require.NoError(t, err)
	assert.Equal(t, "done", string(out))

	// Logo present: block kept, path substituted.
	require.NoError(t, os.MkdirAll(filepath.Join(staticRoot, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "img", "logo.png"), []byte("png"), 0o644))
	r = NewRenderer(dir, staticRoot, "t")
	out, err = r.Render("page.html", Context{})
	require.NoError(t, err)
	assert.Equal(t, `<img src="/static/img/logo.png">done`, string(out))
}

func TestFindLogoPrefersEarlierExtensions(t *testing.T) {
	staticRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticRoot, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "img", "logo.svg"), []byte("s"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "img", "logo.gif"), []byte("g"), 0o644))

	assert.Equal(t, "/static/img/logo.gif", FindLogo(staticRoot))
}

func TestRenderFallsBackToEmbeddedViews(t *testing.T) {
	r := NewRenderer(t.TempDir(), t.TempDir(), "Embedded Title")

	out, err := r.Render("login.html", Context{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Embedded Title")

	_, err = r.Render("missing.html", Context{})
	assert.Error(t, err)
}
