package models

import "time"

// PropertyNote is one free-text annotation on a saved property. Note IDs are
// unique within the owning property's note list only. Pinned notes sort ahead
// of unpinned ones; archived notes are hidden from active views by default.
type PropertyNote struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Color      string    `json:"color,omitempty"`
	IsPinned   bool      `json:"isPinned"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
