package worker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"studyquest-backend/internal/extract"
)

func TestIsExtractionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unsupported type", fmt.Errorf("wrap: %w", extract.ErrUnsupportedType), true},
		{"empty content", extract.ErrEmptyContent, true},
		{"library unavailable", fmt.Errorf("%w: bad pdf", extract.ErrLibraryUnavailable), true},
		{"fetch failure", extract.ErrFetch, true},
		{"other error", errors.New("db timeout"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isExtractionError(tc.err); got != tc.want {
				t.Errorf("isExtractionError = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUserFacingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unsupported", extract.ErrUnsupportedType, "not supported"},
		{"empty", extract.ErrEmptyContent, "readable text"},
		{"parse failure", extract.ErrLibraryUnavailable, "could not be parsed"},
		{"fetch", extract.ErrFetch, "could not be fetched"},
		{"passthrough", errors.New("db timeout"), "db timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := userFacingError(tc.err)
			if !strings.Contains(msg, tc.want) {
				t.Errorf("userFacingError = %q, want it to contain %q", msg, tc.want)
			}
		})
	}
}

func TestGetResultType(t *testing.T) {
	if got := getResultType("game-generation"); got != "session" {
		t.Errorf("Expected 'session', got %q", got)
	}
	if got := getResultType("upload-processing"); got != "upload" {
		t.Errorf("Expected 'upload', got %q", got)
	}
}
