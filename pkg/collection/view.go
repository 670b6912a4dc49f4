package collection

import (
	"sort"
	"strings"
	"time"

	"homefolio-api/models"
	"homefolio-api/pkg/annotations"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Category partitions the saved-items collection for tabbed views. Categories
// are mutually exclusive per call; "noted" and "quick-saves" are exact
// complements of each other.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryRecent     Category = "recent"
	CategoryNoted      Category = "noted"
	CategoryQuickSaves Category = "quick-saves"
	CategoryFolders    Category = "folders"
)

// Sort selects the comparator applied after filtering.
type Sort string

const (
	SortRecent    Sort = "recent"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortTitle     Sort = "title"
	SortNotes     Sort = "notes"
)

// RecentWindow is the fixed cutoff for the "recent" category.
const RecentWindow = 7 * 24 * time.Hour

// Options drives one View invocation. A zero Now falls back to wall-clock
// time; tests inject a fixed instant.
type Options struct {
	Search   string
	Category Category
	Sort     Sort
	Now      time.Time
}

var titleCollator = collate.New(language.Und, collate.IgnoreCase)

// View produces the filtered, categorized, sorted sequence consumed by list
// rendering. The pipeline is always search → category → sort, applied over a
// defensive copy; the input slice is never reordered or mutated.
func View(props []models.SavedProperty, opts Options) []models.SavedProperty {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make([]models.SavedProperty, 0, len(props))
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, p := range props {
		if needle != "" && !matchesSearch(&p, needle) {
			continue
		}
		if !matchesCategory(&p, opts.Category, now) {
			continue
		}
		out = append(out, p)
	}

	sortProperties(out, opts.Sort)
	return out
}

func matchesSearch(p *models.SavedProperty, needle string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		p.Title,
		p.Address.City,
		p.Address.State,
		p.Address.Street,
		p.Type,
		annotations.FlattenedText(p.Notes),
	}, " "))
	return strings.Contains(haystack, needle)
}

func matchesCategory(p *models.SavedProperty, cat Category, now time.Time) bool {
	switch cat {
	case CategoryRecent:
		return isRecent(p, now)
	case CategoryNoted:
		return hasNotes(p)
	case CategoryQuickSaves:
		return !hasNotes(p)
	case CategoryFolders:
		return p.FolderID != nil
	default:
		// "all" and unrecognized categories are the identity filter.
		return true
	}
}

// isRecent treats a missing SavedAt as saved just now, so such records are
// always recent. Kept as-is for compatibility with the shipped clients.
func isRecent(p *models.SavedProperty, now time.Time) bool {
	if p.SavedAt == nil {
		return true
	}
	return now.Sub(*p.SavedAt) <= RecentWindow
}

// hasNotes counts archived notes too: archiving hides a note from display
// but does not move the property back to quick-saves.
func hasNotes(p *models.SavedProperty) bool {
	return annotations.FlattenedText(p.Notes) != ""
}

func sortProperties(props []models.SavedProperty, by Sort) {
	switch by {
	case SortPriceLow:
		sort.SliceStable(props, func(i, j int) bool {
			return props[i].Rent.Amount < props[j].Rent.Amount
		})
	case SortPriceHigh:
		sort.SliceStable(props, func(i, j int) bool {
			return props[i].Rent.Amount > props[j].Rent.Amount
		})
	case SortTitle:
		sort.SliceStable(props, func(i, j int) bool {
			return titleCollator.CompareString(props[i].DisplayTitle(), props[j].DisplayTitle()) < 0
		})
	case SortNotes:
		// Raw serialized length, not note count. A crude proxy, preserved
		// because the clients rely on its ordering.
		sort.SliceStable(props, func(i, j int) bool {
			return len(props[i].Notes) > len(props[j].Notes)
		})
	case SortRecent:
		sort.SliceStable(props, func(i, j int) bool {
			return savedAtOrZero(&props[i]).After(savedAtOrZero(&props[j]))
		})
	}
}

// savedAtOrZero maps a missing SavedAt to the zero time so unsorted legacy
// records sink to the end of a recency sort.
func savedAtOrZero(p *models.SavedProperty) time.Time {
	if p.SavedAt == nil {
		return time.Time{}
	}
	return *p.SavedAt
}
