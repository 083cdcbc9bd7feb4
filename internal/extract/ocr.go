package extract

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Tesseract parallelizes internally via OpenMP. With a pool of workers each
// running its own recognition, that oversubscribes the CPU, so the engine
// is pinned to one thread per worker. The variable is read when the first
// engine initializes, which is why this must happen once, before any
// worker spawns.
var pinEngineOnce sync.Once

func pinEngineThreads() {
	pinEngineOnce.Do(func() {
		os.Setenv("OMP_THREAD_LIMIT", "1")
	})
}

// ocrPass drains the queue of flagged pages through a bounded worker pool
// and arbitrates each result against the page's native text. Workers share
// nothing mutable: each owns its page record, and pages are merged by index
// so completion order never reorders the document. Returns the number of
// pages where OCR replaced native text.
func (e *Extractor) ocrPass(ctx context.Context, pages []*page) int {
	queue := make([]*page, 0)
	for _, p := range pages {
		if p.needsOCR && !p.pixelBomb && p.png != nil {
			queue = append(queue, p)
		}
	}
	if len(queue) == 0 {
		return 0
	}

	pinEngineThreads()

	// Whole-document budget. Expiry is soft: pages still queued keep their
	// native text and the document still extracts successfully.
	stageCtx, cancel := context.WithTimeout(ctx, e.cfg.OCRBudget)
	defer cancel()

	g, gctx := errgroup.WithContext(stageCtx)
	g.SetLimit(e.cfg.MaxOCRWorkers)

	for _, p := range queue {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // budget exhausted, keep native text
			}
			e.recognizePage(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	improved := 0
	for _, p := range queue {
		if p.ocrText == "" {
			continue
		}
		if isOCRBetter(p.nativeText, p.ocrText) {
			p.ocrBetter = true
			p.finalText = p.ocrText
			improved++
		}
	}
	return improved
}

// recognizePage runs Tesseract on one pre-rendered page under the per-page
// timeout. A timed-out or failed page simply contributes no OCR text; it is
// never an error and never cancels sibling pages.
func (e *Extractor) recognizePage(ctx context.Context, p *page) {
	// Hand the raster to this invocation and drop the field up front. A
	// timed-out recognition keeps running in its own goroutine, and it
	// must never share the bytes it reads with anything that still holds
	// the page record.
	img := p.png
	p.png = nil

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		e.log.Warn("ocr image undecodable", zap.Int("page", p.index+1), zap.Error(err))
		return
	}
	if cfg.Width*cfg.Height > e.cfg.MaxPixels {
		p.pixelBomb = true
		e.log.Warn("pixel bomb rejected at recognition",
			zap.Int("page", p.index+1), zap.Int("pixels", cfg.Width*cfg.Height))
		return
	}

	start := time.Now()
	done := make(chan string, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()
		if err := client.SetLanguage(e.cfg.OCRLanguage); err != nil {
			done <- ""
			return
		}
		if err := client.SetImageFromBytes(img); err != nil {
			done <- ""
			return
		}
		text, err := client.Text()
		if err != nil {
			done <- ""
			return
		}
		done <- text
	}()

	pageCtx, cancel := context.WithTimeout(ctx, e.cfg.PageOCRTimeout)
	defer cancel()

	select {
	case text := <-done:
		p.ocrText = text
		e.log.Debug("ocr page done",
			zap.Int("page", p.index+1),
			zap.Int("chars", len(text)),
			zap.Duration("took", time.Since(start)))
	case <-pageCtx.Done():
		e.log.Warn("ocr page timed out", zap.Int("page", p.index+1))
	}
}
