package models

import (
	"strings"
	"time"
)

// Address is the denormalized location snapshot carried on a saved property.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
}

// Rent is the denormalized price snapshot. A zero Amount means the listing
// did not expose a price at save time.
type Rent struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// SavedProperty is a listing a user has bookmarked, together with the
// denormalized listing snapshot taken at save time. Notes holds the raw
// notes column as stored: either a legacy plain-text string or a serialized
// annotation array (see pkg/annotations).
type SavedProperty struct {
	ID         string     `json:"id"`
	UserID     int        `json:"userId"`
	Title      string     `json:"title"`
	Address    Address    `json:"address"`
	Rent       Rent       `json:"rent"`
	Type       string     `json:"type"`
	Bedrooms   int        `json:"bedrooms"`
	Bathrooms  int        `json:"bathrooms"`
	Images     []string   `json:"images"`
	SavedAt    *time.Time `json:"savedAt"`
	FolderID   *int       `json:"folderId"`
	Notes      string     `json:"notes"`
	IsDeleted  bool       `json:"-"`
	ModifiedAt time.Time  `json:"modifiedAt"`
}

// DisplayTitle is the title shown in lists and used for title sorting.
// Falls back to the street/city snapshot when the listing had no title.
func (p *SavedProperty) DisplayTitle() string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	parts := []string{}
	if p.Address.Street != "" {
		parts = append(parts, p.Address.Street)
	}
	if p.Address.City != "" {
		parts = append(parts, p.Address.City)
	}
	return strings.Join(parts, ", ")
}

// CanonicalPropertyID resolves the two interchangeable key fields clients
// historically sent ("id" and "propertyId") to a single identifier. The
// primary field wins when both are present.
func CanonicalPropertyID(id, legacyID string) string {
	if s := strings.TrimSpace(id); s != "" {
		return s
	}
	return strings.TrimSpace(legacyID)
}
