package annotations

import (
	"testing"

	"homefolio-api/models"

	"github.com/stretchr/testify/assert"
)

func TestUpsertAppendsWithGeneratedID(t *testing.T) {
	notes := Upsert(nil, UpsertParams{Text: "hello"})
	assert.Len(t, notes, 1)
	assert.NotEmpty(t, notes[0].ID)
	assert.Equal(t, "hello", notes[0].Text)
	assert.False(t, notes[0].IsPinned)
	assert.False(t, notes[0].IsArchived)
	assert.Equal(t, notes[0].CreatedAt, notes[0].UpdatedAt)
}

func TestUpsertReplacesTextByID(t *testing.T) {
	base := Upsert(nil, UpsertParams{Text: "draft"})
	updated := Upsert(base, UpsertParams{ID: base[0].ID, Text: "final"})
	assert.Len(t, updated, 1)
	assert.Equal(t, base[0].ID, updated[0].ID)
	assert.Equal(t, "final", updated[0].Text)
	assert.Equal(t, base[0].CreatedAt, updated[0].CreatedAt)
	// Input list untouched.
	assert.Equal(t, "draft", base[0].Text)
}

func TestUpsertUnknownIDAppends(t *testing.T) {
	base := Upsert(nil, UpsertParams{Text: "one"})
	out := Upsert(base, UpsertParams{ID: "nonexistent-id", Text: "two"})
	assert.Len(t, out, 2)
	assert.NotEqual(t, "nonexistent-id", out[1].ID)
}

func TestDeleteIsTotal(t *testing.T) {
	base := Upsert(Upsert(nil, UpsertParams{Text: "one"}), UpsertParams{Text: "two"})

	unchanged := Delete(base, "nonexistent-id")
	assert.Equal(t, base, unchanged)

	out := Delete(base, base[0].ID)
	assert.Len(t, out, 1)
	assert.Equal(t, "two", out[0].Text)
}

func TestTogglePin(t *testing.T) {
	base := Upsert(nil, UpsertParams{Text: "pin me"})
	pinned := TogglePin(base, base[0].ID)
	assert.True(t, pinned[0].IsPinned)
	assert.False(t, base[0].IsPinned)

	unpinned := TogglePin(pinned, base[0].ID)
	assert.False(t, unpinned[0].IsPinned)

	// Unknown ID: no throw, no change.
	assert.Equal(t, base, TogglePin(base, "missing"))
}

func TestToggleArchive(t *testing.T) {
	base := Upsert(nil, UpsertParams{Text: "archive me"})
	archived := ToggleArchive(base, base[0].ID)
	assert.True(t, archived[0].IsArchived)

	restored := ToggleArchive(archived, base[0].ID)
	assert.False(t, restored[0].IsArchived)

	assert.Equal(t, base, ToggleArchive(base, "missing"))
}

func TestMutatorsDoNotShareBackingArray(t *testing.T) {
	base := []models.PropertyNote{{ID: "a", Text: "original"}}
	out := TogglePin(base, "a")
	out[0].Text = "mutated"
	assert.Equal(t, "original", base[0].Text)
}
