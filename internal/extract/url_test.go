package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Cell Biology</title>
<style>body { font-family: sans-serif; }</style>
<script>console.log("tracking code that must not leak into output");</script>
</head>
<body>
<h1>The Cell</h1>
<p>Cells are the basic structural &amp; functional units of all known organisms.
Every cell consists of cytoplasm enclosed within a membrane, which contains
proteins and nucleic acids essential for life processes.</p>
</body>
</html>`

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := NewURLExtractor()
	content, err := e.FromURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FromURL failed: %v", err)
	}

	if strings.Contains(content.Text, "tracking code") {
		t.Error("Expected script content stripped")
	}
	if strings.Contains(content.Text, "font-family") {
		t.Error("Expected style content stripped")
	}
	if strings.Contains(content.Text, "<") {
		t.Error("Expected all tags stripped")
	}
	if !strings.Contains(content.Text, "structural & functional") {
		t.Error("Expected entity decoded")
	}
	if content.Metadata.FileType != "text/html" {
		t.Errorf("Expected file type text/html, got %q", content.Metadata.FileType)
	}
}

func TestFromURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewURLExtractor()
	_, err := e.FromURL(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch for 404, got %v", err)
	}
}

func TestFromURL_TooLittleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>short</p></body></html>"))
	}))
	defer srv.Close()

	e := NewURLExtractor()
	_, err := e.FromURL(context.Background(), srv.URL)
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected ErrEmptyContent, got %v", err)
	}
}

func TestFromURL_ConnectionRefused(t *testing.T) {
	e := NewURLExtractor()
	_, err := e.FromURL(context.Background(), "http://127.0.0.1:1")
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch for unreachable host, got %v", err)
	}
}

func TestStripHTML_UnknownEntitiesBlanketStripped(t *testing.T) {
	got := StripHTML("alpha &hellip; omega")
	if strings.Contains(got, "&hellip;") {
		t.Errorf("Expected unknown entity removed, got %q", got)
	}
	if !strings.Contains(got, "alpha") || !strings.Contains(got, "omega") {
		t.Errorf("Expected surrounding text kept, got %q", got)
	}
}
