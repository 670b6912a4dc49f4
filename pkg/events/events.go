package events

// Event types pushed to a user's other devices. These structs are
// intentionally small and versionable; changes should be additive.

// CollectionChanged signals that the user's saved-items collection mutated
// on another device and cached views should be refreshed.
type CollectionChanged struct {
	Type       string `json:"type"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resourceId,omitempty"`
}

// NewCollectionChanged builds the event for a given resource kind
// ("property", "folder", "search", "profile") and identifier.
func NewCollectionChanged(resource, resourceID string) CollectionChanged {
	return CollectionChanged{Type: "collection.changed", Resource: resource, ResourceID: resourceID}
}

// SearchAlertsToggled signals that alerting was turned on or off for a
// saved search.
type SearchAlertsToggled struct {
	Type     string `json:"type"`
	SearchID int    `json:"searchId"`
	Enabled  bool   `json:"enabled"`
}
