package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleText = `Photosynthesis is the process by which green plants convert light energy
into chemical energy. Chlorophyll absorbs sunlight and drives the reaction
that produces glucose and oxygen from carbon dioxide and water.`

func TestExtract_PlainText(t *testing.T) {
	svc := NewService()

	content, err := svc.Extract([]byte(sampleText), "notes.txt", "text/plain")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if content.Metadata.WordCount == 0 {
		t.Error("Expected non-zero word count")
	}
	if content.Metadata.FileType != "text/plain" {
		t.Errorf("Expected file type 'text/plain', got %q", content.Metadata.FileType)
	}
	if strings.Contains(content.Text, "\r") {
		t.Error("Expected carriage returns to be normalized away")
	}
}

func TestExtract_TooShort(t *testing.T) {
	svc := NewService()

	_, err := svc.Extract([]byte("too short"), "notes.txt", "text/plain")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected ErrEmptyContent, got %v", err)
	}
}

func TestExtract_UnknownMIMEFallsBackToText(t *testing.T) {
	svc := NewService()

	content, err := svc.Extract([]byte(sampleText), "notes.md", "text/markdown")
	if err != nil {
		t.Fatalf("Expected text fallback for unknown MIME, got: %v", err)
	}
	if !strings.Contains(content.Text, "Photosynthesis") {
		t.Error("Expected extracted text to contain source content")
	}
}

func TestExtract_BinaryWithUnknownMIME(t *testing.T) {
	svc := NewService()

	data := append([]byte{0x00, 0x01, 0x02, 0xFF}, []byte(sampleText)...)
	_, err := svc.Extract(data, "mystery.bin", "application/octet-stream")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType for binary data, got %v", err)
	}
}

func TestExtract_LegacyFormats(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name     string
		mimeType string
	}{
		{"legacy doc", MimeDOC},
		{"legacy ppt", MimePPT},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Extract([]byte(sampleText), "old-file", tc.mimeType)
			if !errors.Is(err, ErrLibraryUnavailable) {
				t.Errorf("Expected ErrLibraryUnavailable, got %v", err)
			}
			if err != nil && !strings.Contains(err.Error(), "upload again") {
				t.Errorf("Expected conversion hint in error, got %q", err)
			}
		})
	}
}

func TestExtract_MIMEParameterStripped(t *testing.T) {
	svc := NewService()

	content, err := svc.Extract([]byte(sampleText), "notes.txt", "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if content.Metadata.FileType != "text/plain" {
		t.Errorf("Expected charset parameter stripped, got %q", content.Metadata.FileType)
	}
}

func TestLooksBinary(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		binary bool
	}{
		{"plain ascii", []byte("hello world"), false},
		{"utf-8", []byte("héllo wörld"), false},
		{"nul byte", []byte("hel\x00lo"), true},
		{"invalid utf-8", []byte{0xFF, 0xFE, 0x41}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := looksBinary(tc.data); got != tc.binary {
				t.Errorf("looksBinary = %v, want %v", got, tc.binary)
			}
		})
	}
}

// buildZip assembles an in-memory zip archive from part name to XML content.
func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDocxExtractor(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Photosynthesis converts light energy into chemical energy.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Chlorophyll absorbs sunlight &amp; drives the reaction that produces glucose.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	data := buildZip(t, map[string]string{"word/document.xml": doc})

	svc := NewService()
	content, err := svc.Extract(data, "bio.docx", MimeDOCX)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !strings.Contains(content.Text, "Photosynthesis") {
		t.Error("Expected first paragraph in output")
	}
	if !strings.Contains(content.Text, "sunlight & drives") {
		t.Error("Expected XML entity decoded")
	}
	// Paragraph boundaries become line breaks
	if !strings.Contains(content.Text, "\n") {
		t.Error("Expected paragraphs separated by newlines")
	}
}

func TestDocxExtractor_MissingDocumentPart(t *testing.T) {
	data := buildZip(t, map[string]string{"word/other.xml": "<x/>"})

	svc := NewService()
	_, err := svc.Extract(data, "broken.docx", MimeDOCX)
	if !errors.Is(err, ErrLibraryUnavailable) {
		t.Errorf("Expected ErrLibraryUnavailable, got %v", err)
	}
}

func TestPptxExtractor_SlideOrder(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sld>`
	}

	// Slide 10 must sort after slide 2, not lexicographically before it.
	data := buildZip(t, map[string]string{
		"ppt/slides/slide10.xml": slide("Slide ten covers mitochondria and cellular respiration pathways in detail."),
		"ppt/slides/slide2.xml":  slide("Slide two introduces the chloroplast structure and its internal membranes."),
		"ppt/slides/slide1.xml":  slide("Slide one is the overview of photosynthesis and energy conversion."),
	})

	svc := NewService()
	content, err := svc.Extract(data, "deck.pptx", MimePPTX)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	iOne := strings.Index(content.Text, "Slide one")
	iTwo := strings.Index(content.Text, "Slide two")
	iTen := strings.Index(content.Text, "Slide ten")
	if iOne < 0 || iTwo < 0 || iTen < 0 {
		t.Fatalf("Expected all slides in output, got: %q", content.Text)
	}
	if !(iOne < iTwo && iTwo < iTen) {
		t.Errorf("Expected numeric slide order 1, 2, 10; got positions %d, %d, %d", iOne, iTwo, iTen)
	}

	if content.Metadata.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", content.Metadata.Pages)
	}
}

func TestPptxExtractor_PlaceholdersFiltered(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld><a:p><a:r><a:t>Real slide content about enzyme kinetics, activation energy, and catalysis mechanisms explained thoroughly.</a:t></a:r></a:p></p:sld>`,
		"ppt/slideMasters/slideMaster1.xml": `<p:sldMaster><a:p><a:r><a:t>Click to edit Master title style</a:t></a:r></a:p>` +
			`<a:p><a:r><a:t>Speaker notes template text worth keeping for context sometimes.</a:t></a:r></a:p></p:sldMaster>`,
	})

	svc := NewService()
	content, err := svc.Extract(data, "deck.pptx", MimePPTX)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if strings.Contains(content.Text, "Click to edit") {
		t.Error("Expected master placeholder text filtered out")
	}
	if !strings.Contains(content.Text, "enzyme kinetics") {
		t.Error("Expected slide content preserved")
	}
}

func TestPptxExtractor_NoSlides(t *testing.T) {
	data := buildZip(t, map[string]string{"ppt/presentation.xml": "<p:presentation/>"})

	svc := NewService()
	_, err := svc.Extract(data, "empty.pptx", MimePPTX)
	if !errors.Is(err, ErrLibraryUnavailable) {
		t.Errorf("Expected ErrLibraryUnavailable for deck without slides, got %v", err)
	}
}
