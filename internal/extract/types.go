package extract

import "github.com/Engagic/packet-extraction-service/internal/doclink"

// Method values reported on a Result.
const (
	MethodNative    = "native"
	MethodNativeOCR = "native+ocr"
)

// Link aliases the shared hyperlink record so engine callers keep working
// against this package alone.
type Link = doclink.Link

// Result is the output of one document extraction. Pages are joined in Text
// with "--- PAGE N ---" delimiters; PageCount always equals the number of
// delimiters. When Success is false, Text is empty.
type Result struct {
	Success          bool    `json:"success"`
	Text             string  `json:"text"`
	Method           string  `json:"method"`
	PageCount        int     `json:"pageCount"`
	ExtractionTime   float64 `json:"extractionTime"` // seconds
	OCRPagesImproved int     `json:"ocrPagesImproved"`
	Links            []Link  `json:"links,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// Options selects per-call behavior; tuning knobs live in config.Config.
type Options struct {
	ExtractLinks bool
	TagRedlines  bool
}

// page is the internal per-page record. It is created by the native pass,
// mutated by the OCR pass, and discarded once folded into a Result.
type page struct {
	index      int // 0-based
	nativeText string
	charCount  int
	needsOCR   bool
	pixelBomb  bool
	png        []byte // transient raster, nil unless needsOCR
	html       string // rendition for redline tagging, "" unless requested
	ocrText    string
	ocrBetter  bool
	finalText  string
}
