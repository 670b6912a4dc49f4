package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"homefolio-api/repository"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler serves the alerts screen: pending acknowledgments such
// as search-alert toggles, and the bulk mark-read that clears them.
type NotificationsHandler struct {
	repo *repository.NotificationsRepository
}

func NewNotificationsHandler(repo *repository.NotificationsRepository) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

type alertItem struct {
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	Sticky    bool            `json:"sticky"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (h *NotificationsHandler) ListUnread(c *gin.Context) {
	userID := c.GetInt("userId")
	notifs, err := h.repo.ListUnread(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	items := make([]alertItem, 0, len(notifs))
	for _, n := range notifs {
		items = append(items, alertItem{
			ID:        n.ID,
			Type:      n.Type,
			Sticky:    n.Sticky,
			Payload:   n.Payload,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(items))
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		IDs []int `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "ids required"))
		return
	}
	if err := h.repo.MarkRead(userID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Notifications marked read"}))
}
