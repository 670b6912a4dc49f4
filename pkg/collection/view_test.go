package collection

import (
	"testing"
	"time"

	"homefolio-api/models"

	"github.com/stretchr/testify/assert"
)

func ts(t time.Time) *time.Time { return &t }

func TestViewRecentAndNotedScenario(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	props := []models.SavedProperty{
		{ID: "p1", SavedAt: ts(now.Add(-24 * time.Hour)), Notes: ""},
		{ID: "p2", SavedAt: ts(now.Add(-10 * 24 * time.Hour)), Notes: "hi"},
	}

	recent := View(props, Options{Category: CategoryRecent, Now: now})
	assert.Len(t, recent, 1)
	assert.Equal(t, "p1", recent[0].ID)

	noted := View(props, Options{Category: CategoryNoted, Now: now})
	assert.Len(t, noted, 1)
	assert.Equal(t, "p2", noted[0].ID)
}

func TestViewMissingSavedAtIsAlwaysRecent(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	props := []models.SavedProperty{{ID: "p1", SavedAt: nil}}
	assert.Len(t, View(props, Options{Category: CategoryRecent, Now: now}), 1)
}

func TestViewRecentWindowBoundary(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	props := []models.SavedProperty{
		{ID: "edge", SavedAt: ts(now.Add(-RecentWindow))},
		{ID: "past", SavedAt: ts(now.Add(-RecentWindow - time.Second))},
	}
	got := View(props, Options{Category: CategoryRecent, Now: now})
	assert.Len(t, got, 1)
	assert.Equal(t, "edge", got[0].ID)
}

func TestViewSearchMatchesSnapshotAndNotes(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "p1", Title: "Sunny Loft", Address: models.Address{City: "Barcelona", State: "CT", Street: "Carrer Gran 5"}},
		{ID: "p2", Title: "Quiet Studio", Notes: "close to the METRO station"},
		{ID: "p3", Type: "apartment"},
	}

	assert.Equal(t, "p1", View(props, Options{Search: "barcelona"})[0].ID)
	assert.Equal(t, "p1", View(props, Options{Search: "CARRER"})[0].ID)
	assert.Equal(t, "p2", View(props, Options{Search: "metro"})[0].ID)
	assert.Equal(t, "p3", View(props, Options{Search: "apartment"})[0].ID)

	// Whitespace-only search is the identity filter.
	assert.Len(t, View(props, Options{Search: "   "}), 3)
}

func TestViewCategoryExclusivity(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "a", Notes: "something"},
		{ID: "b"},
		{ID: "c", Notes: "   "},
		{ID: "d", Notes: `[{"id":"n1","text":"x"}]`},
		{ID: "e", Notes: "[]"},
	}
	noted := View(props, Options{Category: CategoryNoted})
	quick := View(props, Options{Category: CategoryQuickSaves})
	assert.Equal(t, len(props), len(noted)+len(quick))
	seen := map[string]int{}
	for _, p := range noted {
		seen[p.ID]++
	}
	for _, p := range quick {
		seen[p.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "property %s must appear in exactly one of noted/quick-saves", id)
	}
}

func TestViewArchivedOnlyNotesStillCount(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "archived-only", Notes: `[{"id":"n1","text":"skyline view","isArchived":true}]`},
		{ID: "plain"},
	}

	noted := View(props, Options{Category: CategoryNoted})
	assert.Equal(t, []string{"archived-only"}, ids(noted))

	quick := View(props, Options{Category: CategoryQuickSaves})
	assert.Equal(t, []string{"plain"}, ids(quick))

	// Archived text stays searchable even though the list view hides it.
	assert.Equal(t, []string{"archived-only"}, ids(View(props, Options{Search: "skyline"})))
}

func TestViewFoldersCategory(t *testing.T) {
	fid := 3
	props := []models.SavedProperty{
		{ID: "filed", FolderID: &fid},
		{ID: "loose"},
	}
	got := View(props, Options{Category: CategoryFolders})
	assert.Len(t, got, 1)
	assert.Equal(t, "filed", got[0].ID)
}

func TestViewPriceSortMissingAmountSortsAsZero(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "p1", Rent: models.Rent{Amount: 500}},
		{ID: "p2", Rent: models.Rent{Amount: 300}},
		{ID: "p3"},
	}
	low := View(props, Options{Sort: SortPriceLow})
	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(low))

	high := View(props, Options{Sort: SortPriceHigh})
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(high))
}

func TestViewNotesSortIsStable(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "first", Notes: "aaaa"},
		{ID: "second", Notes: "bbbb"},
		{ID: "short", Notes: "x"},
	}
	assert.Equal(t, len(props[0].Notes), len(props[1].Notes))

	got := View(props, Options{Sort: SortNotes})
	assert.Equal(t, []string{"first", "second", "short"}, ids(got))
}

func TestViewRecentSortMissingSavedAtSortsLast(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	props := []models.SavedProperty{
		{ID: "none"},
		{ID: "old", SavedAt: ts(now.Add(-48 * time.Hour))},
		{ID: "new", SavedAt: ts(now.Add(-time.Hour))},
	}
	got := View(props, Options{Sort: SortRecent, Now: now})
	assert.Equal(t, []string{"new", "old", "none"}, ids(got))
}

func TestViewTitleSort(t *testing.T) {
	props := []models.SavedProperty{
		{ID: "b", Title: "bright attic"},
		{ID: "a", Title: "Airy duplex"},
		{ID: "c", Address: models.Address{Street: "Curb Lane 1", City: "Madrid"}},
	}
	got := View(props, Options{Sort: SortTitle})
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestViewIsIdempotentAndNonMutating(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	props := []models.SavedProperty{
		{ID: "z", Title: "Zeta", SavedAt: ts(now.Add(-time.Hour)), Rent: models.Rent{Amount: 900}},
		{ID: "a", Title: "Alpha", SavedAt: ts(now.Add(-2 * time.Hour)), Rent: models.Rent{Amount: 100}},
	}
	opts := Options{Sort: SortTitle, Now: now}

	first := View(props, opts)
	second := View(props, opts)
	assert.Equal(t, first, second)

	// Input order untouched by the sort.
	assert.Equal(t, "z", props[0].ID)
	assert.Equal(t, "a", props[1].ID)
}

func ids(props []models.SavedProperty) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}
