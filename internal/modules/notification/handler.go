package notification

import (
	"errors"
	"net/http"
	"strconv"

	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/read-all", h.MarkAllRead)
	}
	protected.GET("/activity", h.MyActivity)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/notifications/broadcast", h.Broadcast)
	admin.GET("/activity", h.AllActivity)
	admin.GET("/email-logs", h.EmailLogs)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "COUNT_FAILED", "Failed to count notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark all as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	sent, err := h.service.Broadcast(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "BROADCAST_FAILED", "Failed to send broadcast")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": sent})
}

func (h *Handler) MyActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.service.ActivityForUser(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load activity")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activity": logs})
}

func (h *Handler) AllActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.service.ActivityAll(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load activity")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activity": logs})
}

func (h *Handler) EmailLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.service.EmailLogs(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load email logs")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"emails": logs})
}
