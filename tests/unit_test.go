package tests

import (
	"testing"

	"homefolio-api/models"
	"homefolio-api/types"

	"github.com/stretchr/testify/assert"
)

func TestPaginationSlice(t *testing.T) {
	p := types.NewPaginationHelper(2, 10)
	start, end := p.Slice(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	// Page past the end collapses to an empty window.
	p = types.NewPaginationHelper(5, 10)
	start, end = p.Slice(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestPaginationClampsPageSize(t *testing.T) {
	p := types.NewPaginationHelper(1, 33)
	assert.Equal(t, 20, p.PageSize)

	p = types.NewPaginationHelper(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestCanonicalPropertyID(t *testing.T) {
	assert.Equal(t, "a", models.CanonicalPropertyID("a", "b"))
	assert.Equal(t, "b", models.CanonicalPropertyID("", "b"))
	assert.Equal(t, "b", models.CanonicalPropertyID("  ", " b "))
	assert.Equal(t, "", models.CanonicalPropertyID("", ""))
}

func TestDisplayTitleFallback(t *testing.T) {
	p := models.SavedProperty{Title: "Corner unit"}
	assert.Equal(t, "Corner unit", p.DisplayTitle())

	p = models.SavedProperty{Address: models.Address{Street: "12 Elm St", City: "Austin"}}
	assert.Equal(t, "12 Elm St, Austin", p.DisplayTitle())
}
