package payment

import (
	"errors"
	"io"
	"net/http"

	"wmx/internal/domain"
	"wmx/internal/pkg/response"
	"wmx/internal/security"

	"github.com/gin-gonic/gin"
)

const maxNotificationBytes = 64 << 10

type Handler struct {
	service *Service
	monitor *security.Monitor
}

func NewHandler(service *Service, monitor *security.Monitor) *Handler {
	return &Handler{service: service, monitor: monitor}
}

// RegisterPublicRoutes exposes the gateway webhook. It authenticates by
// signature, not by session.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/payments/notify", h.Notify)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	payments := protected.Group("/payments")
	{
		payments.POST("/token", h.CreateToken)
		payments.GET("/:orderId", h.Status)
	}
}

func (h *Handler) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	p, err := h.service.CreateToken(c.Request.Context(), c.GetInt64("user_id"), req.InvoiceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGatewayDisabled):
			response.Error(c, http.StatusServiceUnavailable, "GATEWAY_DISABLED", "Online payment is not available")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this invoice")
		case errors.Is(err, ErrNotPayable):
			response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Invoice is not awaiting payment")
		default:
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Could not start the payment")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"order_id":     p.OrderID,
		"token":        p.GatewayToken,
		"redirect_url": p.GatewayRedirectURL,
		"client_key":   h.service.ClientKey(),
	})
}

// Notify handles the gateway webhook. Always replies 200 to valid, known
// orders, including re-deliveries; the service makes the processing
// idempotent.
func (h *Handler) Notify(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read body")
		return
	}

	if err := h.service.HandleNotification(c.Request.Context(), raw); err != nil {
		switch {
		case errors.Is(err, ErrBadSignature):
			h.monitor.Record(security.KindSignatureFailure, c.ClientIP(), c.FullPath(), "payment notification")
			response.Error(c, http.StatusForbidden, "BAD_SIGNATURE", "Signature verification failed")
		case errors.Is(err, ErrBadNotification):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed notification")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown order")
		default:
			response.Error(c, http.StatusInternalServerError, "NOTIFY_FAILED", "Failed to process notification")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "ok"})
}

func (h *Handler) Status(c *gin.Context) {
	orderID := c.Param("orderId")
	isAdmin := c.GetString("role") == string(domain.RoleAdmin)

	p, err := h.service.Status(c.Request.Context(), c.GetInt64("user_id"), isAdmin, orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this payment")
		default:
			response.Error(c, http.StatusInternalServerError, "STATUS_FAILED", "Failed to load payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}
