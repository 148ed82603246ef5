package catalog

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/services", h.ListPublic)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	services := admin.Group("/services")
	{
		services.GET("", h.ListAll)
		services.POST("", h.Create)
		services.PUT("/:id", h.Update)
		services.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) ListPublic(c *gin.Context) {
	offerings, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": offerings})
}

func (h *Handler) ListAll(c *gin.Context) {
	offerings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": offerings})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	o, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", "Slug already in use")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create service")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": o})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return
	}

	var req UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	o, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
		case errors.Is(err, ErrSlugTaken):
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", "Slug already in use")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update service")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": o})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Service deleted"})
}
