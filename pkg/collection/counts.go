package collection

import (
	"time"

	"homefolio-api/models"
)

// CountSet holds the per-category sizes backing the tab badges. It is computed
// fresh on every call; nothing here is cached across mutations.
type CountSet struct {
	All        int `json:"all"`
	Recent     int `json:"recent"`
	Noted      int `json:"noted"`
	QuickSaves int `json:"quickSaves"`
	Folders    int `json:"folders"`
	Profiles   int `json:"profiles"`
	Searches   int `json:"searches"`
}

// Counts aggregates category sizes in a single pass over the properties.
// The predicates are the same ones View applies for filtering. The folders
// figure is the total folder count, empty folders included.
func Counts(props []models.SavedProperty, folders []models.Folder, profiles []models.SavedProfile, searches []models.SavedSearch, now time.Time) CountSet {
	if now.IsZero() {
		now = time.Now()
	}
	cs := CountSet{
		All:      len(props),
		Folders:  len(folders),
		Profiles: len(profiles),
		Searches: len(searches),
	}
	for i := range props {
		p := &props[i]
		if isRecent(p, now) {
			cs.Recent++
		}
		if hasNotes(p) {
			cs.Noted++
		} else {
			cs.QuickSaves++
		}
	}
	return cs
}
