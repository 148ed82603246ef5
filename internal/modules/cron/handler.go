package cron

import (
	"context"
	"net/http"
	"time"

	"wmx/internal/mail"
	"wmx/internal/modules/invoice"
	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenCleaner purges expired and used one-time tokens.
type TokenCleaner interface {
	DeleteExpired(ctx context.Context) error
}

// Handler exposes the scheduled jobs as endpoints for an external scheduler.
// The routes sit behind the cron bearer-secret middleware.
type Handler struct {
	queue      *mail.Queue
	dispatcher *Dispatcher
	invoices   *invoice.Service
	tokens     TokenCleaner
}

func NewHandler(queue *mail.Queue, dispatcher *Dispatcher, invoices *invoice.Service, tokens TokenCleaner) *Handler {
	return &Handler{queue: queue, dispatcher: dispatcher, invoices: invoices, tokens: tokens}
}

func (h *Handler) RegisterRoutes(cron *gin.RouterGroup) {
	cron.POST("/mail-drain", h.DrainMail)
	cron.POST("/invoice-sweep", h.SweepInvoices)
	cron.POST("/token-cleanup", h.CleanupTokens)
}

// DrainMail sends everything waiting in the email queue.
func (h *Handler) DrainMail(c *gin.Context) {
	result := h.queue.Drain(c.Request.Context(), h.dispatcher.Send)
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// SweepInvoices marks overdue invoices and queues their reminders, then
// drains the queue so reminders leave in the same run.
func (h *Handler) SweepInvoices(c *gin.Context) {
	sweep, err := h.invoices.SweepOverdue(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SWEEP_FAILED", "Failed to sweep invoices")
		return
	}

	drain := h.queue.Drain(c.Request.Context(), h.dispatcher.Send)
	response.Success(c, http.StatusOK, gin.H{"sweep": sweep, "mail": drain})
}

func (h *Handler) CleanupTokens(c *gin.Context) {
	if err := h.tokens.DeleteExpired(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, "CLEANUP_FAILED", "Failed to clean up tokens")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Expired tokens removed"})
}
