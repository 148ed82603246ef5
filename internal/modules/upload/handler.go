package upload

import (
	"errors"
	"net/http"

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

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.POST("/presign", h.Presign)
	}
}

// Upload accepts a multipart file under the "file" field with a "kind" form
// value.
func (h *Handler) Upload(c *gin.Context) {
	kind := c.PostForm("kind")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read file")
		return
	}
	defer file.Close()

	result, err := h.service.Store(
		c.Request.Context(),
		kind,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"upload": result})
}

type presignRequest struct {
	Kind     string `json:"kind" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
	Size     int64  `json:"size" binding:"required,gt=0"`
}

func (h *Handler) Presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.service.Presign(c.Request.Context(), req.Kind, req.FileName, req.MimeType, req.Size)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"upload": result})
}

func (h *Handler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "File uploads are not available")
	case errors.Is(err, ErrUnknownKind):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown upload kind")
	case errors.Is(err, ErrBadFileName), errors.Is(err, ErrExtBlocked),
		errors.Is(err, ErrBadMimeType), errors.Is(err, ErrContentMismatch):
		h.monitor.Record(security.KindUploadRejected, c.ClientIP(), c.FullPath(), err.Error())
		response.Error(c, http.StatusUnsupportedMediaType, "FILE_REJECTED", "This file type is not allowed")
	case errors.Is(err, ErrTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the size limit")
	default:
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store file")
	}
}
