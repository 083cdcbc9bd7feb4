// Package participation mines civic-access metadata out of packet text:
// how a resident actually joins, watches, or comments on the meeting. It
// runs before summarization so the structured contact info survives even
// when the prose does not.
package participation

import (
	"net/url"
	"regexp"
	"strings"
)

// Mode classifies how the public can attend.
type Mode string

const (
	ModeVirtualOnly Mode = "virtual_only"
	ModeHybrid      Mode = "hybrid"
	ModeInPerson    Mode = "in_person"
	ModeUnspecified Mode = "unspecified"
)

type Email struct {
	Address string `json:"address"`
	Purpose string `json:"purpose"`
}

type PlatformURL struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Info is everything the packet reveals about participating. It is only
// ever returned non-nil when at least one field carries data.
type Info struct {
	Emails        []Email       `json:"emails,omitempty"`
	Phones        []string      `json:"phones,omitempty"` // E.164
	VirtualURLs   []PlatformURL `json:"virtualUrls,omitempty"`
	StreamingURLs []PlatformURL `json:"streamingUrls,omitempty"`
	CableChannel  string        `json:"cableChannel,omitempty"`
	ZoomMeetingID string        `json:"zoomMeetingId,omitempty"` // digits only
	Mode          Mode          `json:"mode"`
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\+?1?[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	cablePattern = regexp.MustCompile(`(?i)cable\s+tv\s+channel\s+(\d+)`)
	// "Meeting ID: 362 027 238" with spaces or dashes between groups.
	meetingIDPattern = regexp.MustCompile(`(?i)meeting\s*id[:\s]+(\d{3}[\s-]?\d{3}[\s-]?\d{3,4})`)
	digitsOnly       = regexp.MustCompile(`\D`)
)

var virtualDomains = map[string]string{
	"zoom.us":             "Zoom",
	"meet.google.com":     "Google Meet",
	"teams.microsoft.com": "Microsoft Teams",
	"webex.com":           "Webex",
	"gotomeeting.com":     "GoToMeeting",
}

var streamingDomains = map[string]string{
	"youtube.com":     "YouTube",
	"youtu.be":        "YouTube",
	"facebook.com":    "Facebook Live",
	"granicus.com":    "Granicus",
	"midpenmedia.org": "Midpen Media",
	"vimeo.com":       "Vimeo",
}

var emailSkip = []string{"example.com", "test@", "noreply"}

// Extract mines the packet text. Nil means nothing was found, which is
// the expected outcome for many packets, never an error.
func Extract(text string) *Info {
	if text == "" {
		return nil
	}

	info := &Info{Mode: ModeUnspecified}
	found := false

	if emails := extractEmails(text); len(emails) > 0 {
		info.Emails = emails
		found = true
	}
	// Meeting URLs and meeting-ID digit groups look like phone numbers;
	// blank both out before phone mining.
	phoneText := urlPattern.ReplaceAllString(text, " ")
	phoneText = meetingIDPattern.ReplaceAllString(phoneText, " ")
	if phones := extractPhones(phoneText); len(phones) > 0 {
		info.Phones = phones
		found = true
	}

	virtual, streaming := classifyURLs(text)
	if len(virtual) > 0 {
		info.VirtualURLs = virtual
		found = true
	}
	if len(streaming) > 0 {
		info.StreamingURLs = streaming
		found = true
	}

	if m := cablePattern.FindStringSubmatch(text); m != nil {
		info.CableChannel = m[1]
		found = true
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "zoom") || len(virtual) > 0 {
		if m := meetingIDPattern.FindStringSubmatch(text); m != nil {
			info.ZoomMeetingID = digitsOnly.ReplaceAllString(m[1], "")
			found = true
		}
	}

	if !found {
		return nil
	}
	info.Mode = inferMode(lower, len(virtual) > 0)
	return info
}

func extractEmails(text string) []Email {
	var out []Email
	seen := map[string]bool{}
	for _, addr := range emailPattern.FindAllString(text, -1) {
		lower := strings.ToLower(addr)
		if seen[lower] || isSkippedEmail(lower) {
			continue
		}
		seen[lower] = true
		out = append(out, Email{Address: addr, Purpose: inferEmailPurpose(text, addr)})
	}
	return out
}

func isSkippedEmail(addr string) bool {
	for _, skip := range emailSkip {
		if strings.Contains(addr, skip) {
			return true
		}
	}
	return false
}

// inferEmailPurpose reads the 100 chars around the address for the role it
// plays. Heuristic: a clerk address next to "submit written comments" is a
// comment channel regardless of its mailbox name.
func inferEmailPurpose(text, addr string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(addr))
	if idx < 0 {
		return "general contact"
	}
	lo := idx - 100
	if lo < 0 {
		lo = 0
	}
	hi := idx + len(addr) + 100
	if hi > len(text) {
		hi = len(text)
	}
	context := strings.ToLower(text[lo:hi])

	switch {
	case containsAny(context, "written comment", "public comment", "submit comment"):
		return "written comments"
	case containsAny(context, "powerpoint", "video", "media", "presentation"):
		return "media submissions"
	case strings.Contains(context, "clerk"):
		return "city clerk"
	case strings.Contains(context, "council"):
		return "city council"
	default:
		return "general contact"
	}
}

// extractPhones normalizes NANP numbers to E.164: digits only, +1 prefix.
func extractPhones(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, raw := range phonePattern.FindAllString(text, -1) {
		digits := digitsOnly.ReplaceAllString(raw, "")
		var normalized string
		switch {
		case len(digits) == 10:
			normalized = "+1" + digits
		case len(digits) == 11 && strings.HasPrefix(digits, "1"):
			normalized = "+" + digits
		default:
			continue
		}
		if !seen[normalized] {
			seen[normalized] = true
			out = append(out, normalized)
		}
	}
	return out
}

func classifyURLs(text string) (virtual, streaming []PlatformURL) {
	seen := map[string]bool{}
	for _, raw := range urlPattern.FindAllString(text, -1) {
		// Agenda prose habitually ends URLs with punctuation.
		raw = strings.TrimRight(raw, ".,;:)")
		if seen[raw] {
			continue
		}
		seen[raw] = true

		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := u.Hostname()

		if platform, ok := matchDomain(host, virtualDomains); ok {
			virtual = append(virtual, PlatformURL{Platform: platform, URL: raw})
			continue
		}
		if platform, ok := matchDomain(host, streamingDomains); ok {
			streaming = append(streaming, PlatformURL{Platform: platform, URL: raw})
		}
	}
	return virtual, streaming
}

func matchDomain(host string, domains map[string]string) (string, bool) {
	for domain, platform := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

var hybridKeywords = []string{
	"hybrid", "in-person and virtual", "attend in person or", "zoom or in person",
}

var inPersonKeywords = []string{
	"in person", "in-person", "council chambers", "city hall",
}

func inferMode(lower string, hasVirtual bool) Mode {
	switch {
	case containsAny(lower, hybridKeywords...):
		return ModeHybrid
	case hasVirtual && containsAny(lower, inPersonKeywords...):
		return ModeHybrid
	case hasVirtual:
		return ModeVirtualOnly
	case containsAny(lower, inPersonKeywords...):
		return ModeInPerson
	default:
		return ModeUnspecified
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
