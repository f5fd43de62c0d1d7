package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Lllllllleong/ocrworker/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// SourceOpener reads uploaded source objects.
type SourceOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// PageLimitError is returned for PDFs too long for a synchronous analysis call.
type PageLimitError struct {
	Pages    int
	MaxPages int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("document has %d pages; the synchronous analyzer accepts at most %d", e.Pages, e.MaxPages)
}

// PageGuard rejects PDFs with more pages than the synchronous analyzer
// accepts before the analysis call is made. A nil guard accepts everything.
type PageGuard struct {
	source   SourceOpener
	maxPages int
}

// NewPageGuard returns nil when maxPages is not positive or there is no source.
func NewPageGuard(source SourceOpener, maxPages int) *PageGuard {
	if source == nil || maxPages <= 0 {
		return nil
	}
	// Function hosts have a read-only home directory.
	api.DisableConfigDir()
	return &PageGuard{source: source, maxPages: maxPages}
}

func (g *PageGuard) Check(ctx context.Context, item models.WorkItem) error {
	if g == nil || !strings.EqualFold(path.Ext(item.SourceKey), ".pdf") {
		return nil
	}

	rc, err := g.source.Open(ctx, item.SourceBucket, item.SourceKey)
	if err != nil {
		return fmt.Errorf("failed to open source for page check: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read source for page check: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("failed to count PDF pages: %w", err)
	}
	if pages > g.maxPages {
		return &PageLimitError{Pages: pages, MaxPages: g.maxPages}
	}
	return nil
}
