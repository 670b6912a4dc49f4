package annotations

import (
	"testing"
	"time"

	"homefolio-api/models"

	"github.com/stretchr/testify/assert"
)

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		notes := Parse(raw)
		assert.NotNil(t, notes)
		assert.Len(t, notes, 0)
	}
}

func TestParseLegacyPlainText(t *testing.T) {
	notes := Parse("just a plain note")
	assert.Len(t, notes, 1)
	assert.Equal(t, "just a plain note", notes[0].Text)
	assert.NotEmpty(t, notes[0].ID)
	assert.False(t, notes[0].IsPinned)
	assert.False(t, notes[0].IsArchived)
}

func TestParseMalformedJSONDegradesToPlainText(t *testing.T) {
	for _, raw := range []string{
		`[{"id": "broken"`,
		`[not json at all]`,
		`{"id":"an-object-not-an-array"}`,
	} {
		notes := Parse(raw)
		assert.Len(t, notes, 1, "input %q", raw)
		assert.Equal(t, raw, notes[0].Text)
	}
}

func TestParseJSONArray(t *testing.T) {
	raw := `[{"id":"n1","text":"call the landlord","isPinned":true,"isArchived":false},` +
		`{"id":"n2","text":"ask about parking","color":"yellow","isPinned":false,"isArchived":true}]`
	notes := Parse(raw)
	assert.Len(t, notes, 2)
	assert.Equal(t, "n1", notes[0].ID)
	assert.True(t, notes[0].IsPinned)
	assert.Equal(t, "n2", notes[1].ID)
	assert.Equal(t, "yellow", notes[1].Color)
	assert.True(t, notes[1].IsArchived)
}

func TestParseEmptyArray(t *testing.T) {
	assert.Len(t, Parse("[]"), 0)
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	input := []models.PropertyNote{
		{ID: "a", Text: "first", IsPinned: true, CreatedAt: created, UpdatedAt: created},
		{ID: "b", Text: "second", Color: "red", IsArchived: true, CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}
	assert.Equal(t, input, Parse(Serialize(input)))

	// Empty list round-trips to an empty list, not a legacy note.
	assert.Len(t, Parse(Serialize(nil)), 0)
}

func TestSerializeIsStable(t *testing.T) {
	notes := Parse(`[{"id":"x","text":"t"},{"id":"y","text":"u"}]`)
	assert.Equal(t, Serialize(notes), Serialize(Parse(Serialize(notes))))
}

func TestFlattenedText(t *testing.T) {
	raw := Serialize([]models.PropertyNote{
		{ID: "a", Text: "visible"},
		{ID: "b", Text: "archived too", IsArchived: true},
		{ID: "c", Text: "  "},
	})
	assert.Equal(t, "visible archived too", FlattenedText(raw))
	assert.Equal(t, "legacy text", FlattenedText("legacy text"))
	assert.Equal(t, "", FlattenedText(""))
}
