// Package extract is the dual-pass text/OCR engine at the core of the
// packet pipeline. Every input is treated as adversarial: corrupt files,
// encrypted files, scanned-image-only files, and decompression bombs all
// degrade gracefully instead of taking the process down.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Engagic/packet-extraction-service/internal/config"
	"github.com/Engagic/packet-extraction-service/internal/redline"
)

// Fetcher supplies packet bytes for a source URL. Fetching is a
// collaborator concern; the engine only ever sees byte buffers.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor runs the native pass, the OCR pool, and the redline tagger
// over one document at a time. It holds no per-document state, so one
// Extractor serves any number of sequential or concurrent calls.
type Extractor struct {
	cfg     config.Config
	fetcher Fetcher
	log     *zap.Logger
}

func New(cfg config.Config, fetcher Fetcher, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{cfg: cfg, fetcher: fetcher, log: log}
}

// ExtractFromURL fetches the packet through the collaborator and extracts
// it. The fetch error passes through typed so callers can distinguish
// source trouble from document trouble.
func (e *Extractor) ExtractFromURL(ctx context.Context, url string, opts Options) (Result, error) {
	start := time.Now()
	if e.fetcher == nil {
		err := fmt.Errorf("no fetcher configured")
		return failed(err, start), err
	}
	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		e.log.Error("packet fetch failed", zap.String("url", url), zap.Error(err))
		return failed(err, start), err
	}
	return e.ExtractFromBytes(ctx, data, opts)
}

// ExtractFromBytes extracts a packet already in memory. The only error it
// returns is document-level (ErrUnreadablePDF); per-page problems are
// absorbed into degraded output.
func (e *Extractor) ExtractFromBytes(ctx context.Context, data []byte, opts Options) (Result, error) {
	start := time.Now()

	pages, err := e.nativePass(data, opts)
	if err != nil {
		e.log.Error("document unreadable", zap.Error(err))
		return failed(err, start), err
	}

	improved := e.ocrPass(ctx, pages)

	method := MethodNative
	if improved > 0 {
		method = MethodNativeOCR
	}

	if opts.TagRedlines && e.cfg.RedlineEnabled {
		e.tagRedlines(pages)
	}

	var links []Link
	if opts.ExtractLinks {
		links = e.extractLinks(data)
	}

	res := Result{
		Success:          true,
		Text:             joinPages(pages),
		Method:           method,
		PageCount:        len(pages),
		ExtractionTime:   time.Since(start).Seconds(),
		OCRPagesImproved: improved,
		Links:            links,
	}
	e.log.Info("packet extracted",
		zap.Int("pages", res.PageCount),
		zap.Int("ocrImproved", improved),
		zap.String("method", method),
		zap.Int("chars", len(res.Text)),
		zap.Float64("seconds", res.ExtractionTime))
	return res, nil
}

// tagRedlines activates inline [ADDED]/[DELETED] tagging, but only when an
// early page declares the redline convention. Pages whose rendition shows
// no styled runs keep their merged text untouched.
func (e *Extractor) tagRedlines(pages []*page) {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.finalText
	}
	if !redline.HasLegend(texts) {
		return
	}
	taggedPages := 0
	for _, p := range pages {
		if p.html == "" {
			continue
		}
		if tagged, ok := redline.TagPage(p.html); ok {
			p.finalText = tagged
			taggedPages++
		}
	}
	e.log.Info("redline legend found", zap.Int("taggedPages", taggedPages))
}

// joinPages reassembles final text strictly by page index; OCR completion
// order never leaks into ordering. Every page contributes exactly one
// delimiter, which is what keeps the page-count invariant checkable.
func joinPages(pages []*page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("--- PAGE %d ---\n%s", i+1, strings.TrimRight(p.finalText, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func failed(err error, start time.Time) Result {
	return Result{
		Success:        false,
		ExtractionTime: time.Since(start).Seconds(),
		Error:          err.Error(),
	}
}
