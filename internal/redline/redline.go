// Package redline recovers legislative insertion/deletion semantics from
// formatting cues. Municipal drafting convention marks proposed insertions
// with underline and deletions with strikethrough; a legend on an early
// page ("Additions are underlined, deletions are struck through") declares
// the convention for the document.
package redline

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	legendWindow = 200 // chars within which all four concepts must co-occur
	legendPages  = 5   // only the first pages are scanned for a legend
)

// The four legend concepts, each with the synonyms seen across vendor
// platforms. All four must land inside one window for the legend to count.
var legendConcepts = [4][]string{
	{"addition", "added", "inserted", "new text", "underlined text"},
	{"deletion", "deleted", "removed", "stricken"},
	{"underline", "underscore"},
	{"strikethrough", "strike-through", "strikeout", "struck through", "struck-through"},
}

type mark int

const (
	markNone mark = iota
	markAdded
	markDeleted
)

// HasLegend reports whether the first pages of a document declare the
// redline convention. This is the sole activation trigger for tagging: a
// document that merely uses underline for emphasis has no legend, and the
// deliberate bias is to miss a real redline rather than tag a false one.
func HasLegend(pageTexts []string) bool {
	n := len(pageTexts)
	if n > legendPages {
		n = legendPages
	}
	for i := 0; i < n; i++ {
		if legendInText(pageTexts[i]) {
			return true
		}
	}
	return false
}

func legendInText(text string) bool {
	lower := strings.ToLower(text)
	// Anchor windows at each occurrence of the first concept; a legend
	// sentence always leads with what additions/deletions look like.
	for _, kw := range legendConcepts[0] {
		for at := 0; ; {
			idx := strings.Index(lower[at:], kw)
			if idx < 0 {
				break
			}
			start := at + idx
			if windowHasAll(lower, start, start+len(kw)) {
				return true
			}
			at = start + len(kw)
		}
	}
	return false
}

// windowHasAll reports whether any 200-char window covering the anchor
// keyword at lower[start:end] also holds the other three concepts. The
// window slides across every placement that still contains the anchor, so
// the legend matches wherever in the sentence the addition term lands.
func windowHasAll(lower string, start, end int) bool {
	lo := end - legendWindow
	if lo < 0 {
		lo = 0
	}
	for ; lo <= start; lo++ {
		hi := lo + legendWindow
		if hi > len(lower) {
			hi = len(lower)
		}
		window := lower[lo:hi]
		if anyIn(window, legendConcepts[1]) &&
			anyIn(window, legendConcepts[2]) &&
			anyIn(window, legendConcepts[3]) {
			return true
		}
	}
	return false
}

func anyIn(s string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var (
	mergeAdded   = regexp.MustCompile(`\[ADDED: ([^\]]*)\]\s*\[ADDED: `)
	mergeDeleted = regexp.MustCompile(`\[DELETED: ([^\]]*)\]\s*\[DELETED: `)
)

// TagPage rewrites one page from its HTML rendition, wrapping underlined
// spans as [ADDED: ...] and struck spans as [DELETED: ...]. It returns the
// rewritten text and whether any styled run was found; callers keep the
// native text when nothing was tagged so untouched pages never regress.
func TagPage(pageHTML string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	var b strings.Builder
	tagged := false
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			if walk(node, markNone, &b) {
				tagged = true
			}
		}
	})
	if !tagged {
		return "", false
	}

	out := b.String()
	// Adjacent runs of the same style are one edit; merge them.
	for {
		merged := mergeAdded.ReplaceAllString(out, "[ADDED: $1 ")
		merged = mergeDeleted.ReplaceAllString(merged, "[DELETED: $1 ")
		if merged == out {
			break
		}
		out = merged
	}
	return strings.TrimSpace(out), true
}

// walk emits the text content of node in document order, opening a tag
// whenever it crosses into a styled region. Styling arrives either as
// explicit u/s/del elements or as an inline text-decoration.
func walk(node *html.Node, m mark, b *strings.Builder) bool {
	tagged := false
	switch node.Type {
	case html.TextNode:
		text := normalizeSpace(node.Data)
		if text == "" {
			return false
		}
		pad(b)
		switch m {
		case markAdded:
			b.WriteString("[ADDED: " + text + "]")
			return true
		case markDeleted:
			b.WriteString("[DELETED: " + text + "]")
			return true
		default:
			b.WriteString(text)
			return false
		}
	case html.ElementNode:
		child := m
		switch node.Data {
		case "u", "ins":
			child = markAdded
		case "s", "del", "strike":
			child = markDeleted
		default:
			switch styleMark(node) {
			case markAdded:
				child = markAdded
			case markDeleted:
				child = markDeleted
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c, child, b) {
				tagged = true
			}
		}
		if node.Data == "p" || node.Data == "div" || node.Data == "br" {
			b.WriteString("\n")
		}
	default:
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c, m, b) {
				tagged = true
			}
		}
	}
	return tagged
}

func styleMark(node *html.Node) mark {
	for _, attr := range node.Attr {
		if attr.Key != "style" {
			continue
		}
		style := strings.ToLower(attr.Val)
		if strings.Contains(style, "line-through") {
			return markDeleted
		}
		if strings.Contains(style, "underline") {
			return markAdded
		}
	}
	return markNone
}

// pad keeps adjacent text nodes from running together.
func pad(b *strings.Builder) {
	s := b.String()
	if s == "" {
		return
	}
	last := s[len(s)-1]
	if last != ' ' && last != '\n' {
		b.WriteByte(' ')
	}
}

func normalizeSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}
