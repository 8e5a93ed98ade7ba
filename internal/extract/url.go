package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// URLExtractor fetches a web page and strips it down to readable text. This
// is pattern matching, not a full HTML parser: entities beyond the basic set
// are blanket-stripped, which can drop meaningful characters. Known
// approximation.
type URLExtractor struct {
	client *http.Client
}

func NewURLExtractor() *URLExtractor {
	return &URLExtractor{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	entityPattern = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
)

// FromURL fetches the URL and applies the same cleanup and minimum-length
// rules as file extraction.
func (e *URLExtractor) FromURL(ctx context.Context, url string) (*ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", ErrFetch, url, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", ErrFetch, url, err)
	}

	text := CleanText(StripHTML(string(body)))
	if len(text) < MinTextLength {
		return nil, fmt.Errorf("%w: got %d characters from %s, need at least %d", ErrEmptyContent, len(text), url, MinTextLength)
	}

	return &ExtractedContent{
		Text: text,
		Metadata: Metadata{
			FileName:    url,
			FileType:    "text/html",
			WordCount:   len(strings.Fields(text)),
			ExtractedAt: time.Now().UTC(),
		},
	}, nil
}

// StripHTML removes script and style blocks, all remaining tags, decodes the
// basic entity set, and blanket-strips the rest.
func StripHTML(s string) string {
	s = scriptPattern.ReplaceAllString(s, " ")
	s = stylePattern.ReplaceAllString(s, " ")
	s = xmlTagPattern.ReplaceAllString(s, " ")
	s = decodeXMLEntities(s)
	s = entityPattern.ReplaceAllString(s, "")
	return s
}
