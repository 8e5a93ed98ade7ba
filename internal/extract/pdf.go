package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer out of a PDF, page by page.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: could not open pdf: %v", ErrLibraryUnavailable, err)
	}

	totalPages := reader.NumPage()

	var b strings.Builder
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages are image-only; keep going.
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return Result{}, fmt.Errorf("%w: pdf has no extractable text layer (scanned or image-only document)", ErrLibraryUnavailable)
	}

	return Result{Text: b.String(), Pages: totalPages}, nil
}
