// Package document turns uploaded files into plain text for field extraction.
package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEText = "text/plain"
)

// TextExtractor reads the text layer of PDF documents. Plain text input is
// returned unchanged.
type TextExtractor struct {
	maxPages int
	logger   logging.Logger
}

// NewTextExtractor creates an extractor that reads at most maxPages pages.
// A non-positive maxPages reads every page.
func NewTextExtractor(maxPages int, logger logging.Logger) *TextExtractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TextExtractor{maxPages: maxPages, logger: logger}
}

// ExtractText returns the text content of data.
func (e *TextExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return string(data), nil
	case mimeType == MIMEPDF:
		return e.extractPDF(ctx, data)
	default:
		return "", errors.New(errors.ErrCodeImportUnsupportedDoc, "unsupported document type").WithDetail(mimeType)
	}
}

func (e *TextExtractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// the pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeImportDocumentRead, "malformed pdf").WithDetail(fmt.Sprint(r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeImportDocumentRead, "failed to open pdf")
	}

	pages := reader.NumPage()
	if e.maxPages > 0 && pages > e.maxPages {
		e.logger.Debug("pdf page limit reached", logging.Int("pages", pages), logging.Int("limit", e.maxPages))
		pages = e.maxPages
	}

	fonts := make(map[string]*pdf.Font)
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		s, err := page.GetPlainText(fonts)
		if err != nil {
			e.logger.Warn("pdf page unreadable", logging.Int("page", i), logging.Err(err))
			continue
		}
		b.WriteString(s)
		b.WriteString("\n")
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New(errors.ErrCodeImportDocumentRead, "pdf has no text layer")
	}
	return text, nil
}

//Personal.AI order the ending
