package chat

import (
	"errors"
	"net/http"
	"strconv"

	"wmx/internal/domain"
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
	chat := protected.Group("/projects/:id/messages")
	{
		chat.GET("", h.History)
		chat.POST("", h.Send)
	}
}

func (h *Handler) History(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	before, _ := strconv.ParseInt(c.Query("before"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	isAdmin := c.GetString("role") == string(domain.RoleAdmin)
	messages, err := h.service.History(c.Request.Context(), c.GetInt64("user_id"), isAdmin, projectID, before, limit)
	if err != nil {
		writeChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) Send(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	isAdmin := c.GetString("role") == string(domain.RoleAdmin)
	m, err := h.service.SendMessage(c.Request.Context(), c.GetInt64("user_id"), isAdmin, projectID, req)
	if err != nil {
		writeChatError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this conversation")
	case errors.Is(err, ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message needs text or an attachment")
	default:
		response.Error(c, http.StatusInternalServerError, "CHAT_ERROR", "Operation failed")
	}
}
