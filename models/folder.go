package models

import "time"

// Folder is a user-defined grouping of saved properties. Exactly one folder
// per user carries IsDefault; it receives otherwise-unfiled saves and the
// members of deleted folders. PropertyCount is derived from membership on
// read and is never stored authoritatively.
type Folder struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	PropertyCount int       `json:"propertyCount"`
	IsDefault     bool      `json:"isDefault"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	ModifiedAt    time.Time `json:"modifiedAt"`
}
