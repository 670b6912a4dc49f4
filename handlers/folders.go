package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

type FoldersHandler struct {
	repo     *repository.FoldersRepository
	sessions *state.Manager
}

func NewFoldersHandler(repo *repository.FoldersRepository, sessions *state.Manager) *FoldersHandler {
	return &FoldersHandler{repo: repo, sessions: sessions}
}

// folderForUser loads a folder and checks ownership in one place.
func (h *FoldersHandler) folderForUser(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return 0, false
	}
	folder, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return 0, false
	}
	if folder == nil || folder.IsDeleted || folder.UserID != c.GetInt("userId") {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Folder not found"))
		return 0, false
	}
	return id, true
}

func (h *FoldersHandler) Create(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	folder, err := h.repo.Create(userID, req.Name, req.Description, req.Color, req.Icon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(userID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(folder))
}

func (h *FoldersHandler) Update(c *gin.Context) {
	id, ok := h.folderForUser(c)
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
		Icon        *string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.repo.Update(id, req.Name, req.Description, req.Color, req.Icon); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(c.GetInt("userId"))
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Folder updated"}))
}

// Delete removes a folder; its members are reassigned to the default folder
// rather than orphaned. The default folder itself cannot be deleted.
func (h *FoldersHandler) Delete(c *gin.Context) {
	id, ok := h.folderForUser(c)
	if !ok {
		return
	}
	userID := c.GetInt("userId")
	if err := h.repo.Delete(userID, id); err != nil {
		if errors.Is(err, repository.ErrDefaultFolder) {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(userID)
	c.Status(http.StatusNoContent)
}

func (h *FoldersHandler) Get(c *gin.Context) {
	id, ok := h.folderForUser(c)
	if !ok {
		return
	}
	folder, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(folder))
}

func (h *FoldersHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	folders, err := h.repo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(folders))
}
