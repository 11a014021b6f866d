// Package fs saves supplement overviews as markdown files.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/suppfetch"
)

// Ensure OverviewStore implements suppfetch.OverviewWriter at compile time.
var _ suppfetch.OverviewWriter = (*OverviewStore)(nil)

// OverviewStore writes each overview to <dir>/<slug>.md. Files are written
// to a temporary file first and renamed into place, so readers never see a
// partial file.
type OverviewStore struct {
	dir string
}

// NewOverviewStore creates a new OverviewStore rooted at dir.
func NewOverviewStore(dir string) *OverviewStore {
	return &OverviewStore{dir: dir}
}

// WriteOverview writes o and returns the path of the file.
func (s *OverviewStore) WriteOverview(ctx context.Context, o *suppfetch.Overview) (string, error) {
	if o == nil {
		return "", suppfetch.Errorf(suppfetch.EINVALID, "overview required")
	}
	slug := suppfetch.SanitizeQuery(o.Query)
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return "", suppfetch.Errorf(suppfetch.EINVALID, "invalid overview name %q", o.Query)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, "."+slug+"-*.md.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatOverview(o)); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, slug+".md")
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// FormatOverview formats an overview with YAML frontmatter.
func FormatOverview(o *suppfetch.Overview) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("query: ")
	b.WriteString(strconv.Quote(o.Query))
	b.WriteString("\nsource: ")
	b.WriteString(o.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(strconv.Quote(o.Title))
	b.WriteString("\nfetched: ")
	b.WriteString(o.Fetched.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(o.Markdown)
	if !strings.HasSuffix(o.Markdown, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
