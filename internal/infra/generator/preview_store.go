package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// PreviewStore writes rendered preview HTML to disk; the API serves the
// directory statically under /preview.
type PreviewStore struct {
	Dir string
}

func NewPreviewStore(dir string) (*PreviewStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview dir: %w", err)
	}
	return &PreviewStore{Dir: dir}, nil
}

func (p *PreviewStore) WritePreview(siteID int64, html string) error {
	path := filepath.Join(p.Dir, fmt.Sprintf("%d.html", siteID))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write preview for site %d: %w", siteID, err)
	}
	return nil
}
