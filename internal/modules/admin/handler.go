package admin

import (
	"errors"
	"net/http"
	"strconv"

	"wmx/internal/pkg/response"
	"wmx/internal/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	monitor *security.Monitor
}

func NewHandler(service *Service, monitor *security.Monitor) *Handler {
	return &Handler{service: service, monitor: monitor}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/dashboard", h.Dashboard)

	users := admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id/role", h.ChangeRole)
		users.PUT("/:id/activate", h.Activate)
		users.PUT("/:id/deactivate", h.Deactivate)
	}

	sec := admin.Group("/security")
	{
		sec.GET("/events", h.SecurityEvents)
		sec.GET("/blocked", h.BlockedIPs)
		sec.POST("/block", h.BlockIP)
		sec.POST("/unblock", h.UnblockIP)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STATS_FAILED", "Failed to load dashboard")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	role := c.Query("role")
	query := c.Query("q")

	users, total, err := h.service.ListUsers(c.Request.Context(), role, query, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.service.ChangeRole(c.Request.Context(), c.GetInt64("user_id"), userID, req.Role)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	user, err := h.service.SetActive(c.Request.Context(), c.GetInt64("user_id"), userID, active)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) SecurityEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	response.Success(c, http.StatusOK, gin.H{"events": h.monitor.Recent(limit)})
}

func (h *Handler) BlockedIPs(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"blocked": h.monitor.BlockedIPs()})
}

func (h *Handler) BlockIP(c *gin.Context) {
	var req BlockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid IP address")
		return
	}

	h.monitor.Block(req.IP)
	response.Success(c, http.StatusOK, gin.H{"message": "IP blocked", "ip": req.IP})
}

func (h *Handler) UnblockIP(c *gin.Context) {
	var req BlockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid IP address")
		return
	}

	h.monitor.Unblock(req.IP)
	response.Success(c, http.StatusOK, gin.H{"message": "IP unblocked", "ip": req.IP})
}

func writeAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrBadRole):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown role")
	case errors.Is(err, ErrLastAdmin):
		response.Error(c, http.StatusConflict, "LAST_ADMIN", "The last admin cannot be demoted or deactivated")
	default:
		response.Error(c, http.StatusInternalServerError, "ADMIN_ERROR", "Operation failed")
	}
}
