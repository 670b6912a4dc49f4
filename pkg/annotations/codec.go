package annotations

import (
	"encoding/json"
	"strings"
	"time"

	"homefolio-api/models"

	"github.com/google/uuid"
)

// The notes column of a saved property has carried three shapes over time:
// empty, a bare plain-text string written by old clients, and a JSON array of
// note objects. Parse is the single place that sniffs the shape; nothing else
// in the codebase may inspect the raw column.

// Parse decodes a raw notes column into an ordered note list.
//   - empty or whitespace-only input yields an empty list
//   - a JSON array of note objects is decoded directly, preserving order
//   - anything else (including malformed JSON) is treated as one legacy
//     plain-text note wrapping the whole string
//
// Malformed payloads never produce an error; degrading to the plain-text
// branch is a compatibility guarantee, not a failure path.
func Parse(raw string) []models.PropertyNote {
	if strings.TrimSpace(raw) == "" {
		return []models.PropertyNote{}
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		var notes []models.PropertyNote
		if err := json.Unmarshal([]byte(raw), &notes); err == nil {
			if notes == nil {
				notes = []models.PropertyNote{}
			}
			return notes
		}
	}
	now := time.Now().UTC()
	return []models.PropertyNote{{
		ID:        uuid.NewString(),
		Text:      raw,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// Serialize encodes a note list as the JSON-array storage form. It is the
// structural inverse of the JSON branch of Parse: Parse(Serialize(n)) == n
// for any list that did not come from the legacy plain-text branch.
func Serialize(notes []models.PropertyNote) string {
	if notes == nil {
		notes = []models.PropertyNote{}
	}
	b, err := json.Marshal(notes)
	if err != nil {
		// Only unmarshalable values (never the case for PropertyNote) reach here.
		return "[]"
	}
	return string(b)
}

// FlattenedText returns the concatenated text of all notes, archived ones
// included. The collection engine uses it for search matching and the "noted"
// predicate: archiving hides a note from the list view, but the property still
// counts as noted and its text stays searchable.
func FlattenedText(raw string) string {
	notes := Parse(raw)
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		if t := strings.TrimSpace(n.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
