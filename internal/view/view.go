// Package view renders HTML views by placeholder substitution. It is
// deliberately not a template engine: views carry {{key}} or <!-- key -->
// placeholders plus a small fixed set of conditional comment blocks.
package view

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed views/*.html
var defaultViews embed.FS

var (
	ifLogoBlock  = regexp.MustCompile(`(?s)<!-- IF_LOGO -->.*?<!-- END_IF_LOGO -->`)
	ifWriteBlock = regexp.MustCompile(`(?s)<!-- IF_WRITE_PERMISSION -->.*?<!-- END_IF_WRITE_PERMISSION -->`)
)

// Context carries the per-render substitution values and the state of the
// conditional blocks.
type Context struct {
	Values map[string]string
	// ShowWriteControls keeps the IF_WRITE_PERMISSION block; otherwise the
	// block is stripped from the output.
	ShowWriteControls bool
}

// Renderer loads views from a directory, falling back to the embedded
// defaults, and substitutes placeholders.
type Renderer struct {
	dir      string
	appTitle string
	logoPath string
}

// NewRenderer builds a renderer for the given views directory. staticRoot is
// scanned once for a logo file; when one exists its web path is substituted
// into every view and IF_LOGO blocks are kept.
func NewRenderer(viewsDir, staticRoot, appTitle string) *Renderer {
	return &Renderer{
		dir:      viewsDir,
		appTitle: appTitle,
		logoPath: FindLogo(staticRoot),
	}
}

// FindLogo looks for static/img/logo.{png,gif,jpeg,jpg,svg} and returns its
// web path, or "" when no logo is installed.
func FindLogo(staticRoot string) string {
	for _, ext := range []string{".png", ".gif", ".jpeg", ".jpg", ".svg"} {
		name := "logo" + ext
		if st, err := os.Stat(filepath.Join(staticRoot, "img", name)); err == nil && st.Mode().IsRegular() {
			return "/static/img/" + name
		}
	}
	return ""
}

// Render loads the named view and applies ctx. Both {{key}} and
// <!-- key --> placeholder forms are replaced. Unused conditional blocks are
// removed entirely, markers included.
func (r *Renderer) Render(view string, ctx Context) ([]byte, error) {
	content, err := r.load(view)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		"app_title": r.appTitle,
		"logo_path": r.logoPath,
	}
	for k, v := range ctx.Values {
		values[k] = v
	}
	for k, v := range values {
		content = strings.ReplaceAll(content, "{{"+k+"}}", v)
		content = strings.ReplaceAll(content, "<!-- "+k+" -->", v)
	}

	content = applyBlock(content, ifLogoBlock, "IF_LOGO", "END_IF_LOGO", r.logoPath != "")
	content = applyBlock(content, ifWriteBlock, "IF_WRITE_PERMISSION", "END_IF_WRITE_PERMISSION", ctx.ShowWriteControls)

	return []byte(content), nil
}

func (r *Renderer) load(view string) (string, error) {
	if r.dir != "" {
		b, err := os.ReadFile(filepath.Join(r.dir, view))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read view %s: %w", view, err)
		}
	}
	b, err := fs.ReadFile(defaultViews, "views/"+view)
	if err != nil {
		return "", fmt.Errorf("view %s not found", view)
	}
	return string(b), nil
}

func applyBlock(content string, block *regexp.Regexp, openTag, closeTag string, keep bool) string {
	if keep {
		content = strings.ReplaceAll(content, "<!-- "+openTag+" -->", "")
		return strings.ReplaceAll(content, "<!-- "+closeTag+" -->", "")
	}
	return block.ReplaceAllString(content, "")
}
