package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"homefolio-api/pkg/events"
	"homefolio-api/pkg/notify"
	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

// SearchesHandler manages saved searches. Params is raw JSON under client
// control; the server validates it only as syntactically valid JSON.
type SearchesHandler struct {
	repo              *repository.SearchesRepository
	notificationsRepo *repository.NotificationsRepository
	sessions          *state.Manager
	notifier          notify.Notifier
}

func NewSearchesHandler(repo *repository.SearchesRepository, notificationsRepo *repository.NotificationsRepository, sessions *state.Manager) *SearchesHandler {
	return &SearchesHandler{repo: repo, notificationsRepo: notificationsRepo, sessions: sessions}
}

func (h *SearchesHandler) WithNotifier(n notify.Notifier) *SearchesHandler {
	h.notifier = n
	return h
}

func (h *SearchesHandler) searchForUser(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return 0, false
	}
	existing, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return 0, false
	}
	if existing == nil || existing.UserID != c.GetInt("userId") {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Saved search not found"))
		return 0, false
	}
	return id, true
}

func (h *SearchesHandler) Create(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		Name                 string          `json:"name" binding:"required"`
		Query                string          `json:"query"`
		Params               json.RawMessage `json:"params" binding:"required"`
		NotificationsEnabled bool            `json:"notificationsEnabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	var tmp interface{}
	if err := json.Unmarshal(req.Params, &tmp); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "params must be valid JSON"))
		return
	}

	search, err := h.repo.Create(userID, req.Name, req.Query, req.Params, req.NotificationsEnabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(userID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(search))
}

func (h *SearchesHandler) Update(c *gin.Context) {
	id, ok := h.searchForUser(c)
	if !ok {
		return
	}
	userID := c.GetInt("userId")
	var req struct {
		Name                 *string          `json:"name"`
		Query                *string          `json:"query"`
		Params               *json.RawMessage `json:"params"`
		NotificationsEnabled *bool            `json:"notificationsEnabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Params != nil {
		var tmp interface{}
		if err := json.Unmarshal(*req.Params, &tmp); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "params must be valid JSON"))
			return
		}
	}

	if err := h.repo.Update(id, req.Name, req.Query, req.Params, req.NotificationsEnabled); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	// Toggling alerts is acknowledged on every channel the user listens on.
	if req.NotificationsEnabled != nil {
		event := events.SearchAlertsToggled{Type: "search.alerts", SearchID: id, Enabled: *req.NotificationsEnabled}
		if payload, err := json.Marshal(event); err == nil {
			_ = h.notificationsRepo.Create(userID, event.Type, payload, false)
		}
		if h.notifier != nil {
			h.notifier.NotifyUser(userID, event)
		}
	}

	h.sessions.Invalidate(userID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Saved search updated"}))
}

func (h *SearchesHandler) Delete(c *gin.Context) {
	id, ok := h.searchForUser(c)
	if !ok {
		return
	}
	if err := h.repo.SetDeleted(id, true); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(c.GetInt("userId"))
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Saved search deleted"}))
}

func (h *SearchesHandler) Restore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return
	}
	existing, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if existing == nil || existing.UserID != c.GetInt("userId") {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Saved search not found"))
		return
	}
	if err := h.repo.SetDeleted(id, false); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	h.sessions.Invalidate(c.GetInt("userId"))
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Saved search restored"}))
}

func (h *SearchesHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	searches, err := h.repo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(searches))
}
