package http

import (
	"fmt"
	"html"
	"os"
	"path"
	"strings"
)

// listEntry is one annotated row of a directory listing.
type listEntry struct {
	Name     string
	URL      string
	IsDir    bool
	Icon     string
	Size     string
	Modified string
	// DeleteURL is set only when the requesting user holds the delete
	// permission and the entry is a regular file.
	DeleteURL string
}

// listEntries reads absDir and annotates every entry. os.ReadDir returns
// entries sorted by name, which is the listing order.
func listEntries(absDir, urlPath string, canDelete bool) ([]listEntry, error) {
	ents, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	entries := make([]listEntry, 0, len(ents))
	for _, e := range ents {
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := listEntry{
			Name:     e.Name(),
			URL:      path.Join(urlPath, e.Name()),
			IsDir:    e.IsDir(),
			Modified: info.ModTime().Format("2006-01-02 15:04"),
		}
		if entry.IsDir {
			entry.Icon = "bi-folder-fill text-warning"
			entry.Size = "-"
		} else {
			entry.Icon = "bi-file-earmark"
			entry.Size = formatSize(info.Size())
			if canDelete {
				entry.DeleteURL = entry.URL
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// rowsHTML renders the listing as table rows, including the "go up" row for
// non-root directories.
func rowsHTML(urlPath string, entries []listEntry) string {
	var b strings.Builder

	if urlPath != "/" {
		parent := path.Dir(urlPath)
		fmt.Fprintf(&b, `
                <tr>
                    <td colspan="4"><a href="%s"><i class="bi bi-arrow-left-circle"></i> Up</a></td>
                </tr>`, html.EscapeString(parent))
	}

	for _, e := range entries {
		deleteButton := ""
		if e.DeleteURL != "" {
			deleteButton = fmt.Sprintf(
				`<button class="btn btn-sm btn-outline-danger" onclick="deleteFile('%s', this)"><i class="bi bi-trash-fill"></i></button>`,
				html.EscapeString(e.DeleteURL))
		}
		fmt.Fprintf(&b, `
                <tr>
                    <td><a href="%s"><i class="bi %s"></i> %s</a></td>
                    <td>%s</td>
                    <td>%s</td>
                    <td class="text-end">%s</td>
                </tr>`,
			html.EscapeString(e.URL), e.Icon, html.EscapeString(e.Name),
			e.Size, e.Modified, deleteButton)
	}
	return b.String()
}

// formatSize renders a byte count the way the listing shows it: whole bytes,
// one decimal for KB/MB, two decimals for GB.
func formatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	case n < gb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/gb)
	}
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
