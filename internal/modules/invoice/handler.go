package invoice

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
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.ListMine)
		invoices.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	invoices := admin.Group("/invoices")
	{
		invoices.GET("", h.ListAll)
		invoices.POST("", h.Create)
		invoices.PUT("/:id", h.Update)
		invoices.POST("/:id/issue", h.Issue)
		invoices.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	if c.GetString("role") == string(domain.RoleAdmin) {
		h.ListAll(c)
		return
	}

	invoices, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load invoices")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoices": invoices})
}

func (h *Handler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")

	invoices, total, err := h.service.ListAll(c.Request.Context(), status, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to load invoices")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *Handler) Get(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice id")
		return
	}

	isAdmin := c.GetString("role") == string(domain.RoleAdmin)
	inv, err := h.service.GetForUser(c.Request.Context(), c.GetInt64("user_id"), isAdmin, invoiceID)
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	inv, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project does not exist")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create invoice")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"invoice": inv})
}

func (h *Handler) Update(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice id")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	inv, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), invoiceID, req)
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) Issue(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice id")
		return
	}

	inv, err := h.service.Issue(c.Request.Context(), c.GetInt64("user_id"), invoiceID)
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) Cancel(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice id")
		return
	}

	inv, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), invoiceID)
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func writeInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this invoice")
	case errors.Is(err, ErrNotDraft):
		response.Error(c, http.StatusConflict, "NOT_DRAFT", "Only draft invoices can be edited")
	case errors.Is(err, ErrNotIssuable):
		response.Error(c, http.StatusConflict, "NOT_ISSUABLE", "Only draft invoices can be issued")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Paid invoices cannot be cancelled")
	default:
		response.Error(c, http.StatusInternalServerError, "INVOICE_ERROR", "Operation failed")
	}
}
