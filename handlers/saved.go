package handlers

import (
	"context"
	"net/http"
	"time"

	"homefolio-api/models"
	"homefolio-api/pkg/events"
	"homefolio-api/pkg/notify"
	"homefolio-api/pkg/optimistic"
	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

// SavedHandler serves the saved-properties collection: saving/unsaving,
// folder moves, the derived list view, and the category counts. Mutations
// are applied optimistically to the user's session snapshot and rolled back
// when the database write fails.
type SavedHandler struct {
	repo         *repository.SavedPropertiesRepository
	foldersRepo  *repository.FoldersRepository
	profilesRepo *repository.ProfilesRepository
	searchesRepo *repository.SearchesRepository
	sessions     *state.Manager
	notifier     notify.Notifier
}

func NewSavedHandler(
	repo *repository.SavedPropertiesRepository,
	foldersRepo *repository.FoldersRepository,
	profilesRepo *repository.ProfilesRepository,
	searchesRepo *repository.SearchesRepository,
	sessions *state.Manager,
) *SavedHandler {
	return &SavedHandler{
		repo:         repo,
		foldersRepo:  foldersRepo,
		profilesRepo: profilesRepo,
		searchesRepo: searchesRepo,
		sessions:     sessions,
	}
}

func (h *SavedHandler) WithNotifier(n notify.Notifier) *SavedHandler {
	h.notifier = n
	return h
}

// session returns the user's session, loading the collection snapshot from
// Postgres on first touch after sign-in or after an invalidation.
func (h *SavedHandler) session(userID int) (*state.Session, error) {
	s := h.sessions.Get(userID)
	if s.Loaded() {
		return s, nil
	}
	props, err := h.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	folders, err := h.foldersRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	profiles, err := h.profilesRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	searches, err := h.searchesRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	s.Load(state.Snapshot{
		Properties: props,
		Folders:    folders,
		Profiles:   profiles,
		Searches:   searches,
	})
	return s, nil
}

func (h *SavedHandler) notifyChanged(userID int, resource, id string) {
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, events.NewCollectionChanged(resource, id))
	}
}

// List is the collection view endpoint: search, category, and sort are
// applied in that order over the session snapshot, then the page window is
// cut from the result.
func (h *SavedHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	opts, err := types.ParseViewParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	s, err := h.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	view := s.View(opts)

	pagination := types.ParsePaginationParams(c)
	start, end := pagination.Slice(len(view))
	c.JSON(http.StatusOK, types.NewSuccessResponse(pagination.BuildResponse(view[start:end], len(view))))
}

// Counts returns the per-category tab badges, recomputed on every call.
func (h *SavedHandler) Counts(c *gin.Context) {
	userID := c.GetInt("userId")
	s, err := h.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(s.Counts()))
}

func (h *SavedHandler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, types.NewSuccessResponse(prop))
}

// Save bookmarks a listing. Clients historically sent the listing key as
// either "id" or "propertyId"; both are accepted and canonicalized.
func (h *SavedHandler) Save(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		ID         string         `json:"id"`
		PropertyID string         `json:"propertyId"`
		Title      string         `json:"title"`
		Address    models.Address `json:"address"`
		Rent       models.Rent    `json:"rent"`
		Type       string         `json:"type"`
		Bedrooms   int            `json:"bedrooms"`
		Bathrooms  int            `json:"bathrooms"`
		Images     []string       `json:"images"`
		FolderID   *int           `json:"folderId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	canonicalID := models.CanonicalPropertyID(req.ID, req.PropertyID)
	if canonicalID == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "property id is required"))
		return
	}
	if req.FolderID != nil {
		folder, err := h.foldersRepo.GetByID(*req.FolderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if folder == nil || folder.IsDeleted || folder.UserID != userID {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "invalid folder"))
			return
		}
	}

	s, err := h.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	prop := models.SavedProperty{
		ID:        canonicalID,
		UserID:    userID,
		Title:     req.Title,
		Address:   req.Address,
		Rent:      req.Rent,
		Type:      req.Type,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Images:    req.Images,
		FolderID:  req.FolderID,
	}

	var canonical *models.SavedProperty
	err = s.Mutate(c.Request.Context(), canonicalID, optimistic.Mutation[state.Snapshot]{
		Apply: func(snap state.Snapshot) state.Snapshot {
			optimisticProp := prop
			now := time.Now().UTC()
			optimisticProp.SavedAt = &now
			return state.ReplaceProperty(snap, optimisticProp)
		},
		Commit: func(ctx context.Context) error {
			saved, err := h.repo.Save(userID, &prop)
			if err != nil {
				return err
			}
			canonical = saved
			return nil
		},
		Revert: func(current, snapshot state.Snapshot) state.Snapshot {
			return state.RestoreProperty(current, snapshot, canonicalID)
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	// Reconcile the snapshot with the canonical row (server-assigned
	// saved_at, preserved notes on revival).
	_ = s.Mutate(c.Request.Context(), canonicalID, optimistic.Mutation[state.Snapshot]{
		Apply: func(snap state.Snapshot) state.Snapshot {
			return state.ReplaceProperty(snap, *canonical)
		},
	})

	h.notifyChanged(userID, "property", canonicalID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(canonical))
}

// Unsave removes a property optimistically; a failed database write puts the
// entry back and surfaces the error.
func (h *SavedHandler) Unsave(c *gin.Context) {
	userID := c.GetInt("userId")
	propertyID := c.Param("id")

	s, err := h.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	err = s.Mutate(c.Request.Context(), propertyID, optimistic.Mutation[state.Snapshot]{
		Apply: func(snap state.Snapshot) state.Snapshot {
			return state.RemoveProperty(snap, propertyID)
		},
		Commit: func(ctx context.Context) error {
			return h.repo.SetDeleted(userID, propertyID, true)
		},
		Revert: func(current, snapshot state.Snapshot) state.Snapshot {
			return state.RestoreProperty(current, snapshot, propertyID)
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	h.notifyChanged(userID, "property", propertyID)
	c.Status(http.StatusNoContent)
}

func (h *SavedHandler) Restore(c *gin.Context) {
	userID := c.GetInt("userId")
	propertyID := c.Param("id")
	if err := h.repo.SetDeleted(userID, propertyID, false); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	// The restored row is not in the snapshot; force a reload.
	h.sessions.Invalidate(userID)
	h.notifyChanged(userID, "property", propertyID)
	c.Status(http.StatusNoContent)
}

// MoveToFolder files a saved property into a folder, or back to none.
func (h *SavedHandler) MoveToFolder(c *gin.Context) {
	userID := c.GetInt("userId")
	propertyID := c.Param("id")
	var req struct {
		FolderID *int `json:"folderId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.FolderID != nil {
		folder, err := h.foldersRepo.GetByID(*req.FolderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if folder == nil || folder.IsDeleted || folder.UserID != userID {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "invalid folder"))
			return
		}
	}

	s, err := h.session(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	existing, err := h.repo.GetByID(userID, propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if existing == nil || existing.IsDeleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Saved property not found"))
		return
	}

	err = s.Mutate(c.Request.Context(), propertyID, optimistic.Mutation[state.Snapshot]{
		Apply: func(snap state.Snapshot) state.Snapshot {
			p := *existing
			p.FolderID = req.FolderID
			return state.ReplaceProperty(snap, p)
		},
		Commit: func(ctx context.Context) error {
			return h.repo.SetFolder(userID, propertyID, req.FolderID)
		},
		Revert: func(current, snapshot state.Snapshot) state.Snapshot {
			return state.RestoreProperty(current, snapshot, propertyID)
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	h.notifyChanged(userID, "property", propertyID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Property moved"}))
}
