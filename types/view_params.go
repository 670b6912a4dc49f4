package types

import (
	"fmt"

	"homefolio-api/pkg/collection"

	"github.com/gin-gonic/gin"
)

var validCategories = map[collection.Category]bool{
	collection.CategoryAll:        true,
	collection.CategoryRecent:     true,
	collection.CategoryNoted:      true,
	collection.CategoryQuickSaves: true,
	collection.CategoryFolders:    true,
}

var validSorts = map[collection.Sort]bool{
	collection.SortRecent:    true,
	collection.SortPriceLow:  true,
	collection.SortPriceHigh: true,
	collection.SortTitle:     true,
	collection.SortNotes:     true,
}

// ParseViewParams reads search/category/sortBy query params into collection
// options. Unknown category or sort values are rejected rather than silently
// mapped to a default, so client typos surface as 400s.
func ParseViewParams(c *gin.Context) (collection.Options, error) {
	opts := collection.Options{
		Search:   c.Query("search"),
		Category: collection.Category(c.DefaultQuery("category", string(collection.CategoryAll))),
		Sort:     collection.Sort(c.DefaultQuery("sortBy", string(collection.SortRecent))),
	}
	if !validCategories[opts.Category] {
		return opts, fmt.Errorf("unknown category %q", opts.Category)
	}
	if !validSorts[opts.Sort] {
		return opts, fmt.Errorf("unknown sortBy %q", opts.Sort)
	}
	return opts, nil
}
