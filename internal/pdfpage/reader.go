package pdfpage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Read parses a whole PDF document and interprets every page's content
// stream. Validation is relaxed; the ministry publishes documents that
// strict validation rejects.
func Read(data []byte) ([]Page, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	pages := make([]Page, 0, pageCount)
	for nr := 1; nr <= pageCount; nr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, nr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract content of page %d: %w", nr, err)
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read content of page %d: %w", nr, err)
		}
		page := interpretContent(content)
		page.Number = nr
		pages = append(pages, page)
	}
	return pages, nil
}
