package extract

import "unicode"

// ValidateText is the post-hoc quality gate: real packet text is longer
// than 100 chars and mostly letters. Exposed so callers can drive their own
// retry/fallback logic without re-implementing the heuristic.
func ValidateText(text string) bool {
	if len(text) <= 100 {
		return false
	}
	return letterRatio(text) > 0.3
}

func letterRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	letters := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

// isOCRBetter arbitrates between a page's native text and its OCR output.
// OCR wins only on a decisive margin: either twice the length with a
// plausible letter ratio, or any gain with a clearly prose-like ratio.
// Garbage OCR of a mostly-blank page loses to short-but-real native text.
func isOCRBetter(native, ocr string) bool {
	if len(ocr) == 0 {
		return false
	}
	ratio := letterRatio(ocr)
	if len(ocr) >= 2*len(native) && ratio > 0.40 {
		return true
	}
	if len(ocr) > len(native) && ratio > 0.70 {
		return true
	}
	return false
}
