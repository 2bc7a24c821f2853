// Package upload extracts uploaded files from multipart bodies and applies
// the configured extension restrictions.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ErrNoFilePart is returned when no part of the multipart body carries a
// filename in its content disposition.
var ErrNoFilePart = errors.New("no file part in form")

// Extract parses a multipart/form-data body and returns the first part that
// carries a filename, as (basename, payload). The whole body is expected to
// be buffered already; the size gate runs before any of it is read.
func Extract(body []byte, contentType string) (string, []byte, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", nil, fmt.Errorf("parse content type: %w", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", nil, fmt.Errorf("unexpected media type %q", mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", nil, errors.New("multipart boundary missing")
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil, ErrNoFilePart
		}
		if err != nil {
			return "", nil, fmt.Errorf("parse form: %w", err)
		}
		name := part.FileName()
		if name == "" {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return "", nil, fmt.Errorf("read file part: %w", err)
		}
		// Strip any directory components a client may have sent.
		return filepath.Base(filepath.FromSlash(name)), data, nil
	}
}

// Restrictions is the configured extension allow/deny list.
type Restrictions struct {
	// Mode is "allow", "deny" or empty. Empty permits everything.
	Mode       string
	Extensions []string
}

// Validate rejects unknown restriction modes at load time.
func (r Restrictions) Validate() error {
	switch r.Mode {
	case "", "allow", "deny":
		return nil
	default:
		return fmt.Errorf("unknown file restriction mode %q", r.Mode)
	}
}

// Allowed reports whether a file with the given name may be uploaded.
// Extensions are matched case-insensitively, including the dot.
func (r Restrictions) Allowed(filename string) bool {
	if r.Mode == "" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	listed := false
	for _, e := range r.Extensions {
		if strings.ToLower(e) == ext {
			listed = true
			break
		}
	}
	if r.Mode == "allow" {
		return listed
	}
	return !listed
}
