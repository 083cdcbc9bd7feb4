package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chicagoSample = `
1. (O2025-0019668) Amendment of ordinance passed on November 7, 2023 regarding
   acquisition of property at 11414 S Halsted St
   (Introduced by Alderman Mosley)
2. (R2025-0000123) Recognition of the 50th anniversary of the public library
3. (SO2025-0000456) Substitute ordinance regarding Municipal Code Section 2-44
`

func TestChicagoParse(t *testing.T) {
	p := ForPlatform("chicago")
	require.NotNil(t, p)

	items := p.Parse(chicagoSample, nil)
	require.Len(t, items, 3)

	assert.Equal(t, "O2025-0019668", items[0].RecordNumber)
	assert.Equal(t, "R2025-0000123", items[1].RecordNumber)
	assert.Equal(t, "SO2025-0000456", items[2].RecordNumber)

	for i, item := range items {
		assert.Equal(t, i+1, item.Sequence)
		assert.NotEmpty(t, item.ID)
	}

	assert.Contains(t, items[0].TitleHint, "Amendment of ordinance")
	// The introduced-by parenthetical is not part of the title.
	assert.NotContains(t, items[0].TitleHint, "Introduced")
}

func TestChicagoParseDeduplicates(t *testing.T) {
	text := "(O2025-0019668) first mention\nlater recap (O2025-0019668) again"
	items := ForPlatform("chicago").Parse(text, nil)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Sequence)
}

func TestChicagoParseNoMatches(t *testing.T) {
	items := ForPlatform("chicago").Parse("CALL TO ORDER\nROLL CALL\nADJOURNMENT", nil)
	assert.Empty(t, items)
}

func TestChicagoParseEmptyText(t *testing.T) {
	assert.Empty(t, ForPlatform("chicago").Parse("", nil))
}
