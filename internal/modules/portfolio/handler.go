package portfolio

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

// RegisterPublicRoutes serves the marketing portfolio without auth.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/portfolio", h.ListPublic)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	gallery := protected.Group("/gallery")
	{
		gallery.GET("", h.ListImages)
		gallery.POST("", h.AddImage)
		gallery.DELETE("/:id", h.DeleteImage)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	items := admin.Group("/portfolio")
	{
		items.GET("", h.ListAll)
		items.POST("", h.CreateItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load portfolio")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ListAll(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load portfolio")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create portfolio item")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Portfolio item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update portfolio item")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Portfolio item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete portfolio item")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Portfolio item deleted"})
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.service.ListImages(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load gallery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"images": images,
		"limit":  h.service.MaxImages(),
	})
}

func (h *Handler) AddImage(c *gin.Context) {
	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	img, err := h.service.AddImage(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrGalleryFull) {
			response.Error(c, http.StatusConflict, "GALLERY_FULL", "Gallery image limit reached")
			return
		}
		response.Error(c, http.StatusInternalServerError, "ADD_FAILED", "Failed to add image")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"image": img})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid image id")
		return
	}

	isAdmin := c.GetString("role") == string(domain.RoleAdmin)
	if err := h.service.DeleteImage(c.Request.Context(), c.GetInt64("user_id"), id, isAdmin); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this image")
		default:
			response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete image")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Image deleted"})
}
