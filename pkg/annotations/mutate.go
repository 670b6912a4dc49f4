package annotations

import (
	"time"

	"homefolio-api/models"

	"github.com/google/uuid"
)

// The four mutators below are pure: they never modify the input slice and
// always return a fresh one. Unknown note IDs are tolerated silently to match
// the fire-and-forget behavior of the clients; none of these functions can fail.

// UpsertParams describes an insert-or-update of a single note. When ID matches
// an existing note its text (and color, when provided) is replaced; otherwise
// a new note is appended with a generated ID.
type UpsertParams struct {
	ID    string
	Text  string
	Color string
}

// Upsert inserts or updates one note and returns the new list.
func Upsert(notes []models.PropertyNote, p UpsertParams) []models.PropertyNote {
	now := time.Now().UTC()
	out := copyNotes(notes)
	if p.ID != "" {
		for i := range out {
			if out[i].ID == p.ID {
				out[i].Text = p.Text
				if p.Color != "" {
					out[i].Color = p.Color
				}
				out[i].UpdatedAt = now
				return out
			}
		}
	}
	return append(out, models.PropertyNote{
		ID:        uuid.NewString(),
		Text:      p.Text,
		Color:     p.Color,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Delete removes the note with the given ID. Absent IDs are a no-op.
func Delete(notes []models.PropertyNote, id string) []models.PropertyNote {
	out := make([]models.PropertyNote, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// TogglePin flips the pinned flag of the note with the given ID.
func TogglePin(notes []models.PropertyNote, id string) []models.PropertyNote {
	out := copyNotes(notes)
	for i := range out {
		if out[i].ID == id {
			out[i].IsPinned = !out[i].IsPinned
			out[i].UpdatedAt = time.Now().UTC()
			break
		}
	}
	return out
}

// ToggleArchive flips the archived flag of the note with the given ID.
func ToggleArchive(notes []models.PropertyNote, id string) []models.PropertyNote {
	out := copyNotes(notes)
	for i := range out {
		if out[i].ID == id {
			out[i].IsArchived = !out[i].IsArchived
			out[i].UpdatedAt = time.Now().UTC()
			break
		}
	}
	return out
}

// Display orders notes for an active view: pinned before unpinned, original
// order preserved within each group. Archived notes are excluded unless
// includeArchived is set.
func Display(notes []models.PropertyNote, includeArchived bool) []models.PropertyNote {
	pinned := make([]models.PropertyNote, 0, len(notes))
	rest := make([]models.PropertyNote, 0, len(notes))
	for _, n := range notes {
		if n.IsArchived && !includeArchived {
			continue
		}
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			rest = append(rest, n)
		}
	}
	return append(pinned, rest...)
}

func copyNotes(notes []models.PropertyNote) []models.PropertyNote {
	out := make([]models.PropertyNote, len(notes))
	copy(out, notes)
	return out
}
