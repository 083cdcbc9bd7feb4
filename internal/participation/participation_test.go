package participation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTypicalAgendaFooter(t *testing.T) {
	text := "Join by Zoom: https://zoom.us/j/1234567890, or call (650) 555-0123, " +
		"or email clerk@city.gov"

	info := Extract(text)
	require.NotNil(t, info)

	require.Len(t, info.VirtualURLs, 1)
	assert.Equal(t, "Zoom", info.VirtualURLs[0].Platform)
	assert.Equal(t, "https://zoom.us/j/1234567890", info.VirtualURLs[0].URL)

	require.Len(t, info.Phones, 1)
	assert.Equal(t, "+16505550123", info.Phones[0])

	require.Len(t, info.Emails, 1)
	assert.Equal(t, "clerk@city.gov", info.Emails[0].Address)
	assert.Equal(t, "city clerk", info.Emails[0].Purpose)

	assert.Equal(t, ModeVirtualOnly, info.Mode)
}

func TestExtractNothingFound(t *testing.T) {
	assert.Nil(t, Extract(""))
	assert.Nil(t, Extract("CALL TO ORDER\nROLL CALL\nADJOURNMENT"))
}

func TestExtractEmailPurposes(t *testing.T) {
	text := "Submit written comments to comments@city.gov before noon on the day " +
		"of the meeting. Comments received after the deadline will be provided to " +
		"the legislative body but may not be read aloud during the meeting itself. " +
		"Direct council questions to council@city.gov."

	info := Extract(text)
	require.NotNil(t, info)
	require.Len(t, info.Emails, 2)
	assert.Equal(t, "written comments", info.Emails[0].Purpose)
	assert.Equal(t, "city council", info.Emails[1].Purpose)
}

func TestExtractSkipsPlaceholderEmails(t *testing.T) {
	info := Extract("Contact someone@example.com or noreply@city.gov for details. " +
		"Real contact: clerk@city.gov")
	require.NotNil(t, info)
	require.Len(t, info.Emails, 1)
	assert.Equal(t, "clerk@city.gov", info.Emails[0].Address)
}

func TestExtractMeetingID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"spaces", "Join Zoom. Meeting ID: 362 027 238", "362027238"},
		{"dashes", "Join Zoom. Meeting ID: 362-027-2381", "3620272381"},
		{"plain", "Join Zoom. Meeting ID: 362027238", "362027238"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Extract(tt.text)
			require.NotNil(t, info)
			assert.Equal(t, tt.want, info.ZoomMeetingID)
		})
	}
}

func TestMeetingIDNotReportedAsPhone(t *testing.T) {
	// A 3-3-4 meeting ID is indistinguishable from a NANP number once the
	// label is gone; only the real phone may survive.
	info := Extract("Join Zoom. Meeting ID: 362-027-2381 or call (650) 555-0123")
	require.NotNil(t, info)
	assert.Equal(t, "3620272381", info.ZoomMeetingID)
	require.Len(t, info.Phones, 1)
	assert.Equal(t, "+16505550123", info.Phones[0])
}

func TestExtractStreamingAndCable(t *testing.T) {
	text := "Watch live at https://www.youtube.com/citycouncil or on Cable TV Channel 26."

	info := Extract(text)
	require.NotNil(t, info)
	require.Len(t, info.StreamingURLs, 1)
	assert.Equal(t, "YouTube", info.StreamingURLs[0].Platform)
	assert.Equal(t, "26", info.CableChannel)
	assert.Empty(t, info.VirtualURLs)
}

func TestExtractModeInference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Mode
	}{
		{"hybrid keyword", "This is a hybrid meeting: https://zoom.us/j/123", ModeHybrid},
		{"virtual plus chambers", "Attend at Council Chambers or https://zoom.us/j/123", ModeHybrid},
		{"virtual only", "Join at https://zoom.us/j/123", ModeVirtualOnly},
		{"in person only", "The meeting is held in person at City Hall, phone (650) 555-0123.", ModeInPerson},
		{"no attendance signals", "Email clerk@city.gov with questions.", ModeUnspecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Extract(tt.text)
			require.NotNil(t, info)
			assert.Equal(t, tt.want, info.Mode)
		})
	}
}

func TestPhoneNormalization(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"parens", "call (650) 555-0123 now", "+16505550123"},
		{"dashes", "call 650-555-0123 now", "+16505550123"},
		{"country code", "call 1-669-900-6833 now", "+16699006833"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Extract(tt.text)
			require.NotNil(t, info)
			require.Len(t, info.Phones, 1)
			assert.Equal(t, tt.want, info.Phones[0])
		})
	}
}
