package extract

import "errors"

// Error taxonomy for the extraction pipeline. Handlers translate these into
// API error codes; everything else is wrapped as an internal error.
var (
	// ErrUnsupportedType means the MIME type is not in the strategy table and
	// the payload did not sniff as text.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmptyContent means extraction produced fewer than MinTextLength
	// characters after cleanup.
	ErrEmptyContent = errors.New("extracted text is too short")

	// ErrLibraryUnavailable wraps underlying parser failures: corrupted PDF,
	// missing text layer, legacy binary formats.
	ErrLibraryUnavailable = errors.New("document parser failed")

	// ErrFetch means a URL source could not be retrieved.
	ErrFetch = errors.New("failed to fetch url")
)
