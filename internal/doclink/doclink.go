// Package doclink holds the hyperlink record shared between the extraction
// engine and the vendor agenda parsers. It sits below both so the parsers
// never link against the engine's OCR toolchain.
package doclink

// Link is one URI hyperlink found in a document. Rect is the annotation's
// bounding region in PDF user space ([llx lly urx ury]); it is only
// meaningful when link extraction was requested.
type Link struct {
	URL  string     `json:"url"`
	Page int        `json:"page"` // 1-based
	Rect [4]float64 `json:"rect"`
}
