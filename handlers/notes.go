package handlers

import (
	"context"
	"net/http"
	"strings"

	"homefolio-api/models"
	"homefolio-api/pkg/annotations"
	"homefolio-api/pkg/notify"
	"homefolio-api/pkg/optimistic"
	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

// NotesHandler serves the per-property annotations. Every operation decodes
// the raw notes column through the codec, applies one pure mutator, and
// writes the serialized result back optimistically.
type NotesHandler struct {
	repo     *repository.SavedPropertiesRepository
	saved    *SavedHandler
	sessions *state.Manager
	notifier notify.Notifier
}

func NewNotesHandler(repo *repository.SavedPropertiesRepository, saved *SavedHandler, sessions *state.Manager) *NotesHandler {
	return &NotesHandler{repo: repo, saved: saved, sessions: sessions}
}

func (h *NotesHandler) WithNotifier(n notify.Notifier) *NotesHandler {
	h.notifier = n
	return h
}

// List returns the property's notes in display order: pinned first, archived
// hidden unless includeArchived=true.
func (h *NotesHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	propertyID := c.Param("id")
	prop, err := h.repo.GetByID(userID, propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if prop == nil || prop.IsDeleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Saved property not found"))
		return
	}
	includeArchived := strings.EqualFold(c.Query("includeArchived"), "true")
	notes := annotations.Display(annotations.Parse(prop.Notes), includeArchived)
	c.JSON(http.StatusOK, types.NewSuccessResponse(notes))
}

// Upsert adds a note, or edits one when an id is supplied.
func (h *NotesHandler) Upsert(c *gin.Context) {
	var req struct {
		ID    string `json:"id"`
		Text  string `json:"text" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	h.mutateNotes(c, func(notes []models.PropertyNote) []models.PropertyNote {
		return annotations.Upsert(notes, annotations.UpsertParams{ID: req.ID, Text: req.Text, Color: req.Color})
	})
}

// Delete removes a note. Deleting an unknown note ID is a no-op.
func (h *NotesHandler) Delete(c *gin.Context) {
	noteID := c.Param("noteId")
	h.mutateNotes(c, func(notes []models.PropertyNote) []models.PropertyNote {
		return annotations.Delete(notes, noteID)
	})
}

func (h *NotesHandler) TogglePin(c *gin.Context) {
	noteID := c.Param("noteId")
	h.mutateNotes(c, func(notes []models.PropertyNote) []models.PropertyNote {
		return annotations.TogglePin(notes, noteID)
	})
}

func (h *NotesHandler) ToggleArchive(c *gin.Context) {
	noteID := c.Param("noteId")
	h.mutateNotes(c, func(notes []models.PropertyNote) []models.PropertyNote {
		return annotations.ToggleArchive(notes, noteID)
	})
}

// mutateNotes runs one pure note transformation against the property's
// current note list and persists the result through the optimistic session.
// The parse → transform → serialize step happens inside Apply, under the
// property's entity lock: two concurrent edits of the same property each see
// the other's result instead of both starting from the same base list.
func (h *NotesHandler) mutateNotes(c *gin.Context, fn func([]models.PropertyNote) []models.PropertyNote) {
	userID := c.GetInt("userId")
	propertyID := c.Param("id")

	prop, err := h.repo.GetByID(userID, propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if prop == nil || prop.IsDeleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Saved property not found"))
		return
	}

	s, err := h.saved.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	var serialized string
	err = s.Mutate(c.Request.Context(), propertyID, optimistic.Mutation[state.Snapshot]{
		Apply: func(snap state.Snapshot) state.Snapshot {
			base := *prop
			if current, ok := state.FindProperty(snap, propertyID); ok {
				base = current
			}
			base.Notes = annotations.Serialize(fn(annotations.Parse(base.Notes)))
			serialized = base.Notes
			return state.ReplaceProperty(snap, base)
		},
		Commit: func(ctx context.Context) error {
			return h.repo.UpdateNotes(userID, propertyID, serialized)
		},
		Revert: func(current, snapshot state.Snapshot) state.Snapshot {
			return state.RestoreProperty(current, snapshot, propertyID)
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	h.saved.notifyChanged(userID, "property", propertyID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(annotations.Parse(serialized)))
}
