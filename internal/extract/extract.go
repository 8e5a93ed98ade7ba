package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinTextLength is the minimum character count an extraction must yield
// after cleanup. Anything shorter fails with ErrEmptyContent.
const MinTextLength = 100

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimePPT  = "application/vnd.ms-powerpoint"
	MimeText = "text/plain"
)

type Metadata struct {
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	Pages       int       `json:"pages,omitempty"`
	WordCount   int       `json:"word_count"`
	ExtractedAt time.Time `json:"extracted_at"`
}

type ExtractedContent struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Result is the raw output of a single format strategy, before the common
// cleanup and length checks.
type Result struct {
	Text  string
	Pages int
}

// Extractor is one format strategy in the MIME dispatch table.
type Extractor interface {
	Extract(data []byte) (Result, error)
}

// Service routes a byte buffer to the right format strategy by MIME type.
// Strategies are constructed once and injected, so tests can swap fakes in.
type Service struct {
	byMIME map[string]Extractor
}

func NewService() *Service {
	s := &Service{byMIME: make(map[string]Extractor)}
	s.Register(MimePDF, &PDFExtractor{})
	s.Register(MimeDOCX, &DocxExtractor{})
	s.Register(MimeDOC, &legacyFormatExtractor{format: "doc", hint: "save the document as .docx or plain text and upload again"})
	s.Register(MimePPTX, &PptxExtractor{})
	s.Register(MimePPT, &legacyFormatExtractor{format: "ppt", hint: "save the presentation as .pptx and upload again"})
	s.Register(MimeText, &PlainTextExtractor{})
	return s
}

func (s *Service) Register(mimeType string, e Extractor) {
	s.byMIME[mimeType] = e
}

// Extract dispatches on the declared MIME type, applies the common cleanup,
// and enforces the minimum-length rule.
func (s *Service) Extract(data []byte, fileName, mimeType string) (*ExtractedContent, error) {
	mimeType = normalizeMIME(mimeType)

	extractor, ok := s.byMIME[mimeType]
	if !ok {
		// Unknown type: best-effort decode as text, but refuse binary data.
		if looksBinary(data) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
		}
		extractor = &PlainTextExtractor{}
	}

	result, err := extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	text := CleanText(result.Text)
	if len(text) < MinTextLength {
		return nil, fmt.Errorf("%w: got %d characters from %s, need at least %d", ErrEmptyContent, len(text), fileName, MinTextLength)
	}

	return &ExtractedContent{
		Text: text,
		Metadata: Metadata{
			FileName:    fileName,
			FileType:    mimeType,
			Pages:       result.Pages,
			WordCount:   len(strings.Fields(text)),
			ExtractedAt: time.Now().UTC(),
		},
	}, nil
}

// normalizeMIME drops parameters like "; charset=utf-8".
func normalizeMIME(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// looksBinary reports whether data carries binary markers: NUL bytes or
// byte sequences that are not valid UTF-8.
func looksBinary(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}

// legacyFormatExtractor rejects old binary Office formats with a hint on how
// to convert the file.
type legacyFormatExtractor struct {
	format string
	hint   string
}

func (e *legacyFormatExtractor) Extract(data []byte) (Result, error) {
	return Result{}, fmt.Errorf("%w: legacy .%s binary format is not supported, %s", ErrLibraryUnavailable, e.format, e.hint)
}

// PlainTextExtractor decodes the buffer directly.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(data []byte) (Result, error) {
	return Result{Text: string(data)}, nil
}
