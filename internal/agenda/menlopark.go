package agenda

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Engagic/packet-extraction-service/internal/doclink"
)

var (
	// Items are letter/number codes on their own line: H1., I2., J5.
	itemCodePattern = regexp.MustCompile(`(?m)^([A-Z]\d+)\.\s*$`)
	// Section markers are a bare letter: H., I., J.
	sectionPattern     = regexp.MustCompile(`(?m)^[A-Z]\.\s*$`)
	staffReportPattern = regexp.MustCompile(`\(Staff Report #([\d-]+(?:-CC)?)\)`)
	pageHeaderPattern  = regexp.MustCompile(`^\s*(\d+)\s*---`)
)

// Form-field boilerplate that shows up where a title should be when the
// packet embeds a staff-report cover sheet right under the item code.
var fieldLabels = map[string]bool{
	"DATE:": true, "TIME:": true, "TO:": true, "FROM:": true,
	"RE:": true, "SUBJECT:": true, "CC:": true, "ATTEST:": true,
	"AGENDA:": true, "LOCATION:": true,
}

// menloParser extracts letter/number coded items and resolves their
// attachments through the packet's hyperlinks: this platform encodes the
// item code in attachment filenames (h1-20251021-cc-tour-de-menlo.pdf), so
// prefix matching associates them precisely.
type menloParser struct{}

func init() { register(menloParser{}) }

func (menloParser) Platform() string { return "menlopark" }

func (menloParser) Parse(text string, links []doclink.Link) []Item {
	var items []Item

	for _, pageText := range strings.Split(text, "--- PAGE")[1:] {
		// Strip the "N ---" remnant of the delimiter.
		if m := pageHeaderPattern.FindStringIndex(pageText); m != nil {
			pageText = pageText[m[1]:]
		}

		matches := itemCodePattern.FindAllStringSubmatchIndex(pageText, -1)
		for i, m := range matches {
			code := pageText[m[2]:m[3]]
			body := pageText[m[1]:]
			if i+1 < len(matches) {
				body = pageText[m[1]:matches[i+1][0]]
			} else if stop := sectionPattern.FindStringIndex(body); stop != nil {
				body = body[:stop[0]]
			}

			// Section-local numbers ("H1", "J1") restart per section, so
			// document order is the only sequence that stays increasing.
			items = append(items, Item{
				ID:          uuid.NewString(),
				ItemID:      code,
				Title:       itemTitle(body),
				Sequence:    len(items) + 1,
				Attachments: attachmentsFor(code, body, links),
			})
		}
	}
	return items
}

// itemTitle takes the first line under the item code that reads like an
// agenda title, rejecting candidates that are really form-field labels.
func itemTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isFieldLabel(line) {
			continue
		}
		return line
	}
	return ""
}

// isFieldLabel flags short all-caps boilerplate ("DATE:", "FROM:") that a
// cover sheet puts where the title would otherwise be.
func isFieldLabel(line string) bool {
	if fieldLabels[line] {
		return true
	}
	if len(line) <= 12 && strings.HasSuffix(line, ":") && line == strings.ToUpper(line) {
		return true
	}
	return false
}

// attachmentsFor matches document links to an item by filename prefix.
// Links that match no item are dropped; without position data there is no
// defensible way to guess their owner.
func attachmentsFor(code, body string, links []doclink.Link) []Attachment {
	marker := attachmentMarker(body)
	prefix := strings.ToLower(code) + "-"

	attachments := []Attachment{}
	for _, link := range links {
		u := link.URL
		if strings.HasPrefix(u, "mailto:") || strings.Contains(u, "zoom.us") {
			continue
		}
		filename := strings.ToLower(u[strings.LastIndex(u, "/")+1:])
		if !strings.HasPrefix(filename, prefix) {
			continue
		}
		attachments = append(attachments, Attachment{
			Name: attachmentName(code, filename, marker),
			URL:  u,
			Type: attachmentType(u),
		})
	}
	return attachments
}

// attachmentMarker reads the parenthetical hint in the item body.
func attachmentMarker(body string) string {
	if m := staffReportPattern.FindStringSubmatch(body); m != nil {
		return "Staff Report #" + m[1]
	}
	if strings.Contains(body, "(Presentation)") {
		return "Presentation"
	}
	if strings.Contains(body, "(Attachment)") {
		return "Attachment"
	}
	return ""
}

func attachmentName(code, filename, marker string) string {
	switch {
	case strings.HasPrefix(marker, "Staff Report"):
		return marker
	case marker != "":
		return code + " - " + marker
	default:
		return titleCase(strings.ReplaceAll(strings.TrimSuffix(filename, ".pdf"), "-", " "))
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func attachmentType(u string) string {
	switch {
	case strings.HasSuffix(u, ".doc"), strings.HasSuffix(u, ".docx"):
		return "doc"
	default:
		return "pdf"
	}
}

