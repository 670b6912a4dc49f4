package collection

import (
	"testing"
	"time"

	"homefolio-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCountsAllEqualsLength(t *testing.T) {
	props := []models.SavedProperty{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	cs := Counts(props, nil, nil, nil, time.Time{})
	assert.Equal(t, len(props), cs.All)
}

func TestCountsCategories(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	fid := 1
	props := []models.SavedProperty{
		{ID: "recent-noted", SavedAt: ts(now.Add(-time.Hour)), Notes: "hi", FolderID: &fid},
		{ID: "old-quick", SavedAt: ts(now.Add(-30 * 24 * time.Hour))},
		{ID: "undated"}, // missing savedAt counts as recent
	}
	folders := []models.Folder{
		{ID: 1, Name: "Quick Saves", IsDefault: true},
		{ID: 2, Name: "Empty folder"},
	}
	profiles := []models.SavedProfile{{ID: 1}}
	searches := []models.SavedSearch{{ID: 1}, {ID: 2}}

	cs := Counts(props, folders, profiles, searches, now)
	assert.Equal(t, 3, cs.All)
	assert.Equal(t, 2, cs.Recent)
	assert.Equal(t, 1, cs.Noted)
	assert.Equal(t, 2, cs.QuickSaves)
	// Total folder count, including empty folders.
	assert.Equal(t, 2, cs.Folders)
	assert.Equal(t, 1, cs.Profiles)
	assert.Equal(t, 2, cs.Searches)
}

func TestCountsNotedQuickSavesPartition(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "a", Notes: "x"},
		{ID: "b"},
		{ID: "c", Notes: "[]"},
		{ID: "d", Notes: `[{"id":"n","text":"t"}]`},
	}
	cs := Counts(props, nil, nil, nil, time.Time{})
	assert.Equal(t, cs.All, cs.Noted+cs.QuickSaves)
}

func TestCountsRecomputesFromInputs(t *testing.T) {
	props := []models.SavedProperty{{ID: "a"}}
	before := Counts(props, nil, nil, nil, time.Time{})
	props = append(props, models.SavedProperty{ID: "b"})
	after := Counts(props, nil, nil, nil, time.Time{})
	assert.Equal(t, before.All+1, after.All)
}
