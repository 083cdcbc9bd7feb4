package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config carries every tuning knob for the extraction subsystem. All values
// are fixed at construction; nothing here is mutated after Load.
type Config struct {
	// Native pass
	OCRThreshold int // chars of native text below which a page is OCR'd
	OCRDPI       int // raster DPI for pre-rendered pages
	MaxPages     int // hard cap on pages processed per document

	// OCR pool
	MaxOCRWorkers  int           // bounded pool size
	PageOCRTimeout time.Duration // per-page recognition timeout
	OCRBudget      time.Duration // whole-document OCR budget
	MaxPixels      int           // per-image pixel ceiling (decompression bombs)
	OCRLanguage    string

	// Fetch collaborator
	MaxPDFBytes     int64
	FetchTimeout    time.Duration
	FetchRateEvery  time.Duration // pacing between batch fetches
	FetchRateBurst  int
	AllowPrivateNet bool // disable SSRF guard (tests, local fixtures)

	// Redline tagging
	RedlineEnabled bool
}

func Load() Config {
	return Config{
		OCRThreshold: envInt("OCR_THRESHOLD", 100),
		OCRDPI:       envInt("OCR_DPI", 150),
		MaxPages:     envInt("MAX_PAGES", 1000),

		MaxOCRWorkers:  envInt("MAX_OCR_WORKERS", defaultWorkers()),
		PageOCRTimeout: envDur("PAGE_OCR_TIMEOUT", 60*time.Second),
		OCRBudget:      envDur("OCR_BUDGET", 300*time.Second),
		MaxPixels:      envInt("MAX_IMAGE_PIXELS", 100_000_000),
		OCRLanguage:    envStr("OCR_LANGUAGE", "eng"),

		MaxPDFBytes:     int64(envInt("MAX_PDF_BYTES", 200<<20)),
		FetchTimeout:    envDur("FETCH_TIMEOUT", 30*time.Second),
		FetchRateEvery:  envDur("FETCH_RATE_EVERY", 500*time.Millisecond),
		FetchRateBurst:  envInt("FETCH_RATE_BURST", 3),
		AllowPrivateNet: envBool("ALLOW_PRIVATE_NET", false),

		RedlineEnabled: envBool("REDLINE_ENABLED", false),
	}
}

// defaultWorkers mirrors min(available cores, 4): OCR is CPU-bound and
// oversubscribing Tesseract slows every page at once.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (c Config) Validate() error {
	if c.OCRThreshold < 0 {
		return fmt.Errorf("OCR_THRESHOLD must be >= 0")
	}
	if c.OCRDPI < 36 || c.OCRDPI > 600 {
		return fmt.Errorf("OCR_DPI must be within 36..600")
	}
	if c.MaxOCRWorkers < 1 {
		return fmt.Errorf("MAX_OCR_WORKERS must be >= 1")
	}
	if c.MaxPixels < 1<<20 {
		return fmt.Errorf("MAX_IMAGE_PIXELS too small to fit any page")
	}
	if c.PageOCRTimeout <= 0 || c.OCRBudget <= 0 {
		return fmt.Errorf("OCR timeouts must be positive")
	}
	if c.PageOCRTimeout > c.OCRBudget {
		return fmt.Errorf("PAGE_OCR_TIMEOUT cannot exceed OCR_BUDGET")
	}
	return nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
