// Package agenda recovers itemized agenda structure from extracted packet
// text. Each vendor publishing platform lays agendas out differently, so
// there is one parser per platform; all of them share the same contract:
// they never fail, and no recognizable structure means an empty slice, not
// an error. Callers fall back to treating the whole packet as one item.
package agenda

import "github.com/Engagic/packet-extraction-service/internal/doclink"

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Item is one agenda entry at a single meeting. Sequence is 1-based and
// strictly increasing in document order. ItemID is the vendor's own code
// ("H1") when the platform has one; ID is always set.
type Item struct {
	ID           string       `json:"id"`
	ItemID       string       `json:"itemId,omitempty"`
	Title        string       `json:"title"`
	Sequence     int          `json:"sequence"`
	Attachments  []Attachment `json:"attachments"`
	RecordNumber string       `json:"recordNumber,omitempty"`
	TitleHint    string       `json:"titleHint,omitempty"`
}

// Parser turns one extraction result into ordered agenda items.
type Parser interface {
	Platform() string
	Parse(text string, links []doclink.Link) []Item
}

var registry = map[string]Parser{}

func register(p Parser) {
	registry[p.Platform()] = p
}

// ForPlatform returns the structural parser for a known source platform,
// or nil when none applies. Nil is an expected, common outcome.
func ForPlatform(name string) Parser {
	return registry[name]
}

// Platforms lists the registered platform names.
func Platforms() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
