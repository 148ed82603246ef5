package project

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

// RegisterProtectedRoutes covers the client-facing reads.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	projects := protected.Group("/projects")
	{
		projects.GET("", h.ListMine)
		projects.GET("/:id", h.Get)
	}
}

// RegisterAdminRoutes covers project and milestone management.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	projects := admin.Group("/projects")
	{
		projects.GET("", h.ListAll)
		projects.POST("", h.Create)
		projects.PUT("/:id", h.Update)
		projects.DELETE("/:id", h.Delete)
		projects.POST("/:id/milestones", h.AddMilestone)
		projects.PUT("/:id/milestones/:milestoneId", h.UpdateMilestone)
		projects.DELETE("/:id/milestones/:milestoneId", h.DeleteMilestone)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")

	// admins see everything from the same endpoint
	if c.GetString("role") == string(domain.RoleAdmin) {
		h.ListAll(c)
		return
	}

	projects, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load projects")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	projects, total, err := h.service.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load projects")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"projects": projects,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *Handler) Get(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	userID := c.GetInt64("user_id")
	isAdmin := c.GetString("role") == string(domain.RoleAdmin)

	p, err := h.service.GetForUser(c.Request.Context(), userID, isAdmin, projectID)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client does not exist")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create project")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) Update(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), projectID, req)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) Delete(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), projectID); err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *Handler) AddMilestone(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}

	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	m, err := h.service.AddMilestone(c.Request.Context(), c.GetInt64("user_id"), projectID, req)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"milestone": m})
}

func (h *Handler) UpdateMilestone(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}
	milestoneID, err := strconv.ParseInt(c.Param("milestoneId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid milestone id")
		return
	}

	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	m, err := h.service.UpdateMilestone(c.Request.Context(), c.GetInt64("user_id"), projectID, milestoneID, req)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"milestone": m})
}

func (h *Handler) DeleteMilestone(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project id")
		return
	}
	milestoneID, err := strconv.ParseInt(c.Param("milestoneId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid milestone id")
		return
	}

	if err := h.service.DeleteMilestone(c.Request.Context(), c.GetInt64("user_id"), projectID, milestoneID); err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Milestone deleted"})
}

func writeProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this project")
	case errors.Is(err, ErrBadProgress):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Progress must be between 0 and 100")
	case errors.Is(err, ErrBadStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status value")
	case errors.Is(err, ErrBadMilestone):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Milestone not found in this project")
	default:
		response.Error(c, http.StatusInternalServerError, "PROJECT_ERROR", "Operation failed")
	}
}
