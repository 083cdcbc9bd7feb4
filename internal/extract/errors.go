package extract

import "errors"

// Document-level failures. Per-page problems (pixel bombs, OCR timeouts)
// never surface as errors; they degrade that page's text instead.
var (
	// ErrUnreadablePDF means the buffer could not be opened as a document
	// at all: corrupt, truncated, or encrypted with an unknown password.
	ErrUnreadablePDF = errors.New("unreadable pdf")

	// ErrValidationFailed is returned by callers gating on ValidateText;
	// the extractor itself reports it only through Result.Error.
	ErrValidationFailed = errors.New("extracted text failed validation")
)
