package handlers

import (
	"net/http"

	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

// ProfilesHandler manages saved roommate profiles, which live alongside the
// property collection and feed the "profiles" tab count.
type ProfilesHandler struct {
	repo     *repository.ProfilesRepository
	sessions *state.Manager
}

func NewProfilesHandler(repo *repository.ProfilesRepository, sessions *state.Manager) *ProfilesHandler {
	return &ProfilesHandler{repo: repo, sessions: sessions}
}

func (h *ProfilesHandler) Save(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		ProfileID   string `json:"profileId" binding:"required"`
		DisplayName string `json:"displayName"`
		Headline    string `json:"headline"`
		AvatarURL   string `json:"avatarUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	profile, err := h.repo.Save(userID, req.ProfileID, req.DisplayName, req.Headline, req.AvatarURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(userID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(profile))
}

func (h *ProfilesHandler) Unsave(c *gin.Context) {
	userID := c.GetInt("userId")
	profileID := c.Param("id")
	if err := h.repo.Unsave(userID, profileID); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(userID)
	c.Status(http.StatusNoContent)
}

func (h *ProfilesHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	profiles, err := h.repo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(profiles))
}
