package extract

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// nativePass opens the document and walks every page in order: selectable
// text first, then a pre-rendered raster for any page below the OCR
// threshold. The fitz handle is not safe to share across goroutines, so the
// whole pass runs on the calling goroutine and only the returned byte
// slices ever cross into the OCR stage.
func (e *Extractor) nativePass(data []byte, opts Options) ([]*page, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadablePDF)
	}
	if total > e.cfg.MaxPages {
		e.log.Warn("page cap applied",
			zap.Int("pages", total), zap.Int("cap", e.cfg.MaxPages))
		total = e.cfg.MaxPages
	}

	pages := make([]*page, total)
	for i := 0; i < total; i++ {
		p := &page{index: i}
		pages[i] = p

		text, err := doc.Text(i)
		if err != nil {
			// A single unreadable page degrades to OCR, not failure.
			e.log.Warn("native text failed", zap.Int("page", i+1), zap.Error(err))
			text = ""
		}
		p.nativeText = text
		p.charCount = len(text)
		p.finalText = text

		if p.charCount >= e.cfg.OCRThreshold {
			continue
		}
		p.needsOCR = true

		if px := e.projectedPixels(doc, i); px > e.cfg.MaxPixels {
			// Decompression bomb: never rasterize, keep native text as-is.
			p.pixelBomb = true
			e.log.Warn("pixel bomb rejected",
				zap.Int("page", i+1), zap.Int("pixels", px))
			continue
		}

		png, err := doc.ImagePNG(i, float64(e.cfg.OCRDPI))
		if err != nil {
			e.log.Warn("page render failed", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		p.png = png
	}

	// The HTML rendition is only needed when the caller wants redline
	// tagging; it must come from the same single-owner handle.
	if opts.TagRedlines {
		for i := 0; i < total; i++ {
			html, err := doc.HTML(i, false)
			if err != nil {
				continue
			}
			pages[i].html = html
		}
	}

	return pages, nil
}

// projectedPixels computes the raster size a page would decode to at the
// configured DPI, from its media box alone. Checking before rendering is
// what actually defends against bombs; checking after would decode them.
func (e *Extractor) projectedPixels(doc *fitz.Document, idx int) int {
	bound, err := doc.Bound(idx)
	if err != nil {
		return 0
	}
	scale := float64(e.cfg.OCRDPI) / 72.0
	w := float64(bound.Dx()) * scale
	h := float64(bound.Dy()) * scale
	return int(w * h)
}
