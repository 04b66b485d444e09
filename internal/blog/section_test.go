package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSection_defaults(t *testing.T) {
	heading := NewSection(SectionHeading)
	assert.Equal(t, SectionHeading, heading.Type)
	assert.Equal(t, 24, heading.FontSize)
	assert.Equal(t, 700, heading.FontWeight)
	assert.False(t, heading.IsQuote)
	assert.False(t, heading.IsHighlight)

	paragraph := NewSection(SectionParagraph)
	assert.Equal(t, 16, paragraph.FontSize)
	assert.Equal(t, 400, paragraph.FontWeight)
	assert.False(t, paragraph.IsQuote)

	quote := NewSection(SectionQuote)
	assert.Equal(t, 16, quote.FontSize)
	assert.Equal(t, 400, quote.FontWeight)
	assert.True(t, quote.IsQuote)

	// no partial style state on a fresh section
	for _, s := range []Section{heading, paragraph, quote, NewSection(SectionList), NewSection(SectionImage)} {
		assert.NotEmpty(t, s.FontColor)
		assert.NotEmpty(t, s.FontFamily)
		assert.NotEmpty(t, s.FontStyle)
		assert.NotEmpty(t, s.TextAlign)
		assert.NotEmpty(t, s.TextDecoration)
		assert.NotEmpty(t, s.TextTransform)
		assert.Empty(t, s.BackgroundColor)
	}
}

func testSections(t *testing.T, contents ...string) []Section {
	t.Helper()
	var sections []Section
	for _, content := range contents {
		s := NewSection(SectionParagraph)
		s.Content = content
		sections = append(sections, s)
	}
	return sections
}

func sectionContents(sections []Section) []string {
	var contents []string
	for _, s := range sections {
		contents = append(contents, s.Content)
	}
	return contents
}

func TestInsertSection(t *testing.T) {
	sections := testSections(t, "one", "two", "three")

	appended, err := InsertSection(sections, InsertAtEnd, SectionHeading)
	require.NoError(t, err)
	assert.Len(t, appended, 4)
	assert.Equal(t, SectionHeading, appended[3].Type)
	// input untouched
	assert.Len(t, sections, 3)

	inserted, err := InsertSection(sections, 0, SectionList)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "", "two", "three"}, sectionContents(inserted))
	assert.Equal(t, SectionList, inserted[1].Type)

	_, err = InsertSection(sections, 3, SectionList)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = InsertSection(sections, -2, SectionList)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveSection(t *testing.T) {
	sections := testSections(t, "one", "two", "three")

	removed, err := RemoveSection(sections, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three"}, sectionContents(removed))
	assert.Len(t, sections, 3)

	_, err = RemoveSection(sections, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveSection_lastRemaining(t *testing.T) {
	sections := testSections(t, "the only one")

	out, err := RemoveSection(sections, 0)
	assert.ErrorIs(t, err, ErrLastSection)
	// a refused remove leaves the sequence as it was, length 1
	assert.Equal(t, []string{"the only one"}, sectionContents(out))
}

func TestMoveSection(t *testing.T) {
	sections := testSections(t, "one", "two", "three")

	movedUp, err := MoveSectionUp(sections, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "one", "three"}, sectionContents(movedUp))

	movedDown, err := MoveSectionDown(sections, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three", "two"}, sectionContents(movedDown))

	// boundary moves are no-ops
	atTop, err := MoveSectionUp(sections, 0)
	require.NoError(t, err)
	assert.Equal(t, sectionContents(sections), sectionContents(atTop))

	atBottom, err := MoveSectionDown(sections, 2)
	require.NoError(t, err)
	assert.Equal(t, sectionContents(sections), sectionContents(atBottom))

	_, err = MoveSectionUp(sections, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = MoveSectionDown(sections, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetSectionContent(t *testing.T) {
	sections := testSections(t, "one", "two", "three")
	sections[1].FontWeight = 600

	updated, err := SetSectionContent(sections, 1, "two point oh")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two point oh", "three"}, sectionContents(updated))
	// only content changed
	assert.Equal(t, 600, updated[1].FontWeight)
	assert.Equal(t, sections[0], updated[0])
	assert.Equal(t, sections[2], updated[2])
	// input untouched
	assert.Equal(t, "two", sections[1].Content)

	_, err = SetSectionContent(sections, 42, "nope")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestApplySectionStyle(t *testing.T) {
	sections := testSections(t, "one", "two", "three")

	fontSize := 20
	italic := "italic"
	highlight := true
	restyled, err := ApplySectionStyle(sections, 2, StylePatch{
		FontSize:    &fontSize,
		FontStyle:   &italic,
		IsHighlight: &highlight,
	})
	require.NoError(t, err)

	assert.Len(t, restyled, 3)
	assert.Equal(t, 20, restyled[2].FontSize)
	assert.Equal(t, "italic", restyled[2].FontStyle)
	assert.True(t, restyled[2].IsHighlight)
	// untouched fields keep their values
	assert.Equal(t, "three", restyled[2].Content)
	assert.Equal(t, 400, restyled[2].FontWeight)
	// other sections untouched
	assert.Equal(t, sections[0], restyled[0])
	assert.Equal(t, sections[1], restyled[1])
	// input untouched
	assert.Equal(t, 16, sections[2].FontSize)

	_, err = ApplySectionStyle(sections, 3, StylePatch{})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// length only changes on insert (+1) and successful remove (-1)
func TestEditOperations_lengthInvariant(t *testing.T) {
	sections := testSections(t, "one")

	for i := 0; i < 4; i++ {
		var err error
		sections, err = InsertSection(sections, InsertAtEnd, SectionParagraph)
		require.NoError(t, err)
		assert.Len(t, sections, i+2)
	}

	moved, err := MoveSectionUp(sections, 3)
	require.NoError(t, err)
	assert.Len(t, moved, 5)
	moved, err = MoveSectionDown(moved, 0)
	require.NoError(t, err)
	assert.Len(t, moved, 5)

	for i := 4; i >= 1; i-- {
		var err error
		sections, err = RemoveSection(sections, 0)
		require.NoError(t, err)
		assert.Len(t, sections, i)
	}

	sections, err = RemoveSection(sections, 0)
	assert.ErrorIs(t, err, ErrLastSection)
	assert.Len(t, sections, 1)
}

func TestNormalizeSections(t *testing.T) {
	sections := NormalizeSections([]Section{
		{Type: SectionHeading, Content: "title", FontSize: 30},
		{Type: SectionParagraph, Content: "text"},
	})

	require.Len(t, sections, 2)
	// explicit values stay
	assert.Equal(t, 30, sections[0].FontSize)
	assert.Equal(t, 700, sections[0].FontWeight)
	// missing attributes get type defaults
	assert.Equal(t, 16, sections[1].FontSize)
	assert.Equal(t, 400, sections[1].FontWeight)
	assert.NotEmpty(t, sections[1].FontColor)
	assert.NotEmpty(t, sections[1].TextAlign)
}
