package agenda

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Engagic/packet-extraction-service/internal/doclink"
)

// Record numbers look like (O2025-0019668): one to three letter prefix for
// the matter type (O ordinance, R resolution, SO substitute ordinance, ...)
// then a 4-digit year and a 7-digit sequence.
var (
	recordPattern = regexp.MustCompile(`\(([A-Z]{1,3}\d{4}-\d{7})\)`)
	parenStop     = regexp.MustCompile(`\n\s*\((?i:City-Wide|Introduced|Ward|Direct)`)
	sectionStop   = regexp.MustCompile(`\n[A-Z][a-z]+ (?:of|and) [A-Z]`)
)

// chicagoParser extracts items by legislative record number. Large-council
// packets list hundreds of matters, each introduced by its record number in
// parentheses with the title text trailing it.
type chicagoParser struct{}

func init() { register(chicagoParser{}) }

func (chicagoParser) Platform() string { return "chicago" }

func (chicagoParser) Parse(text string, _ []doclink.Link) []Item {
	var items []Item
	seen := map[string]bool{}

	for _, m := range recordPattern.FindAllStringSubmatchIndex(text, -1) {
		record := text[m[2]:m[3]]
		if seen[record] {
			// The same matter is often referenced again in section recaps.
			continue
		}
		seen[record] = true

		items = append(items, Item{
			ID:           uuid.NewString(),
			Sequence:     len(items) + 1,
			RecordNumber: record,
			TitleHint:    titleHint(text[m[1]:]),
			Attachments:  []Attachment{},
		})
	}
	return items
}

// titleHint grabs the prose following a record number, stopping at the next
// record, a parenthetical note, or a department section header.
func titleHint(text string) string {
	if len(text) > 200 {
		text = text[:200]
	}
	if next := recordPattern.FindStringIndex(text); next != nil {
		text = text[:next[0]]
	}
	if stop := parenStop.FindStringIndex(text); stop != nil {
		text = text[:stop[0]]
	}
	if stop := sectionStop.FindStringIndex(text); stop != nil {
		text = text[:stop[0]]
	}
	hint := strings.Join(strings.Fields(text), " ")
	return strings.Trim(hint, " .")
}
