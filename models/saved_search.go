package models

import (
	"encoding/json"
	"time"
)

// SavedSearch is a stored listing query. Params is kept as raw JSON so the
// client controls the filter schema; the handler validates it only as
// syntactically valid JSON.
type SavedSearch struct {
	ID                   int             `json:"id"`
	UserID               int             `json:"userId"`
	Name                 string          `json:"name"`
	Query                string          `json:"query"`
	Params               json.RawMessage `json:"params"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
	IsDeleted            bool            `json:"-"`
	CreatedAt            time.Time       `json:"createdAt"`
	ModifiedAt           time.Time       `json:"modifiedAt"`
}
