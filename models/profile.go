package models

import "time"

// SavedProfile is a roommate profile a user has bookmarked. Like a saved
// property it carries a denormalized display snapshot of the profile.
type SavedProfile struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	ProfileID   string    `json:"profileId"`
	DisplayName string    `json:"displayName"`
	Headline    string    `json:"headline"`
	AvatarURL   string    `json:"avatarUrl"`
	SavedAt     time.Time `json:"savedAt"`
	IsDeleted   bool      `json:"-"`
}
