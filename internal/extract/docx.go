package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DocxExtractor treats the file as a ZIP archive and strips the WordprocessingML
// markup out of word/document.xml.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(data []byte) (Result, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: could not open docx archive: %v", ErrLibraryUnavailable, err)
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return Result{}, fmt.Errorf("%w: could not read docx document part: %v", ErrLibraryUnavailable, err)
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return Result{}, fmt.Errorf("%w: could not read docx document part: %v", ErrLibraryUnavailable, err)
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return Result{}, fmt.Errorf("%w: docx archive has no word/document.xml", ErrLibraryUnavailable)
	}

	return Result{Text: stripDocXML(documentXML)}, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDocXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	return decodeXMLEntities(s)
}

var xmlEntityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&nbsp;", " ",
)

func decodeXMLEntities(s string) string {
	return xmlEntityReplacer.Replace(s)
}
