package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PptxExtractor treats the file as a ZIP archive, locates the slide XML parts,
// sorts them by slide index (numerically, so slide10 comes after slide2), and
// pulls the visible text runs out of each slide. Master and layout text is
// merged in as a secondary pass with placeholder boilerplate filtered out.
type PptxExtractor struct{}

var (
	slidePartPattern   = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	supportPartPattern = regexp.MustCompile(`^ppt/(?:slideMasters|slideLayouts)/[^/]+\.xml$`)
	textRunPattern     = regexp.MustCompile(`<a:t>([^<]*)</a:t>`)
	paragraphPattern   = regexp.MustCompile(`(?s)<a:p>(.*?)</a:p>`)
	placeholderPattern = regexp.MustCompile(`(?i)^(click to (edit|add)|edit master|second level|third level|fourth level|fifth level)`)
)

func (e *PptxExtractor) Extract(data []byte) (Result, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: could not open pptx archive: %v", ErrLibraryUnavailable, err)
	}

	type slidePart struct {
		index int
		file  *zip.File
	}

	var slides []slidePart
	var supportParts []*zip.File

	for _, f := range r.File {
		if m := slidePartPattern.FindStringSubmatch(f.Name); m != nil {
			index, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			slides = append(slides, slidePart{index: index, file: f})
			continue
		}
		if supportPartPattern.MatchString(f.Name) {
			supportParts = append(supportParts, f)
		}
	}

	if len(slides) == 0 {
		return Result{}, fmt.Errorf("%w: pptx archive has no slide parts", ErrLibraryUnavailable)
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var b strings.Builder
	for _, slide := range slides {
		xml, err := readZipFile(slide.file)
		if err != nil {
			return Result{}, fmt.Errorf("%w: could not read slide %d: %v", ErrLibraryUnavailable, slide.index, err)
		}

		for _, line := range slideText(xml) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Secondary pass: master and layout text minus placeholder prompts.
	for _, part := range supportParts {
		xml, err := readZipFile(part)
		if err != nil {
			continue
		}
		for _, line := range slideText(xml) {
			if placeholderPattern.MatchString(line) {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return Result{Text: b.String(), Pages: len(slides)}, nil
}

// slideText extracts the visible text runs of one slide part, falling back to
// paragraph-level markup when no runs match, with duplicate runs dropped.
func slideText(xml []byte) []string {
	var lines []string
	seen := make(map[string]bool)

	for _, m := range textRunPattern.FindAllSubmatch(xml, -1) {
		run := strings.TrimSpace(decodeXMLEntities(string(m[1])))
		if run == "" || seen[run] {
			continue
		}
		seen[run] = true
		lines = append(lines, run)
	}

	if len(lines) > 0 {
		return lines
	}

	// No <a:t> runs; fall back to whole paragraphs with their tags stripped.
	for _, m := range paragraphPattern.FindAllSubmatch(xml, -1) {
		p := strings.TrimSpace(decodeXMLEntities(xmlTagPattern.ReplaceAllString(string(m[1]), " ")))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		lines = append(lines, p)
	}

	return lines
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
