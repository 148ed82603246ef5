package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"wmx/internal/domain"
	"wmx/internal/mail"
	"wmx/internal/modules/invoice"
	"wmx/internal/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	payments  PaymentRepositoryInterface
	invoices  InvoiceStore
	users     UserReader
	recorder  Recorder
	queue     MailQueue
	gateway   TransactionCreator
	serverKey string
}

func NewService(payments PaymentRepositoryInterface, invoices InvoiceStore, users UserReader, recorder Recorder, queue MailQueue, gateway TransactionCreator, serverKey string) *Service {
	return &Service{
		payments:  payments,
		invoices:  invoices,
		users:     users,
		recorder:  recorder,
		queue:     queue,
		gateway:   gateway,
		serverKey: serverKey,
	}
}

// CreateToken opens a gateway transaction for a payable invoice owned by the
// caller. Every call creates a fresh payment row with its own order id, so a
// retried checkout never reuses an order the gateway may have expired.
func (s *Service) CreateToken(ctx context.Context, userID, invoiceID int64) (*domain.Payment, error) {
	if !s.gateway.Enabled() {
		return nil, ErrGatewayDisabled
	}

	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inv.ClientID != userID {
		return nil, ErrForbidden
	}
	if !inv.Payable() {
		return nil, ErrNotPayable
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderID := fmt.Sprintf("WMX-%d-%s", inv.ID, uuid.NewString())
	result, err := s.gateway.CreateTransaction(ctx, orderID, inv.Amount, user.Name, user.Email)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		OrderID:            orderID,
		InvoiceID:          inv.ID,
		ClientID:           inv.ClientID,
		Amount:             inv.Amount,
		Status:             domain.PaymentPending,
		GatewayToken:       result.Token,
		GatewayRedirectURL: result.RedirectURL,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.record(ctx, userID, inv.ClientID, "payment.started", p.ID, orderID)
	return p, nil
}

// HandleNotification processes one gateway webhook delivery. Signature check
// first, then an idempotent status write; invoice transitions and emails fire
// only when that write actually changed the row, so re-deliveries are no-ops.
func (s *Service) HandleNotification(ctx context.Context, raw []byte) error {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return ErrBadNotification
	}
	if details := validator.Validate(n); details != nil {
		log.Printf("notification_rejected fields=%v", details)
		return ErrBadNotification
	}

	if !s.verifySignature(n) {
		return ErrBadSignature
	}

	p, err := s.payments.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	_, err = s.applyGatewayStatus(ctx, p, n.TransactionStatus, n.FraudStatus, n.SettlementTime, string(raw))
	return err
}

// Status returns the caller's payment by order id. When the gateway is
// configured, its current transaction state is fetched and synced first, so a
// transition whose webhook has not landed yet still shows up.
func (s *Service) Status(ctx context.Context, userID int64, isAdmin bool, orderID string) (*domain.Payment, error) {
	p, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && p.ClientID != userID {
		return nil, ErrForbidden
	}

	if !s.gateway.Enabled() {
		return p, nil
	}

	res, err := s.gateway.TransactionStatus(ctx, orderID)
	if err != nil {
		// stored state still answers the question
		log.Printf("gateway_status_failed order=%s err=%v", orderID, err)
		return p, nil
	}

	raw, _ := json.Marshal(res)
	status, err := s.applyGatewayStatus(ctx, p, res.TransactionStatus, res.FraudStatus, res.SettlementTime, string(raw))
	if err != nil {
		return nil, err
	}
	p.Status = status
	p.GatewayStatus = res.TransactionStatus
	return p, nil
}

// applyGatewayStatus runs one idempotent sync: the conditional status write
// gates every side effect, so webhook re-deliveries and concurrent status
// polls cannot double-fire emails or invoice transitions.
func (s *Service) applyGatewayStatus(ctx context.Context, p *domain.Payment, transactionStatus, fraudStatus, settlement, raw string) (domain.PaymentStatus, error) {
	status := StatusFromGateway(transactionStatus, fraudStatus)

	var paidAt *time.Time
	if status == domain.PaymentPaid {
		t := settlementTime(settlement)
		paidAt = &t
	}

	changed, err := s.payments.UpdateStatusIfChanged(ctx, p.OrderID, status, transactionStatus, raw, paidAt)
	if err != nil {
		return status, err
	}
	if !changed {
		return status, nil
	}

	switch status {
	case domain.PaymentPaid:
		s.settleInvoice(ctx, p, paidAt)
	case domain.PaymentDenied, domain.PaymentCancelled, domain.PaymentExpired, domain.PaymentFailed:
		s.reopenInvoice(ctx, p, status)
	}
	return status, nil
}

// ClientKey exposes the gateway's publishable key for checkout responses.
func (s *Service) ClientKey() string { return s.gateway.ClientKey() }

func (s *Service) ListForInvoice(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	return s.payments.ListByInvoice(ctx, invoiceID)
}

// settleInvoice marks the invoice paid and fans out the success side effects.
func (s *Service) settleInvoice(ctx context.Context, p *domain.Payment, paidAt *time.Time) {
	inv, err := s.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		log.Printf("settle_lookup_failed invoice=%d err=%v", p.InvoiceID, err)
		return
	}
	if inv.Status == domain.InvoicePaid {
		return
	}

	inv.Status = domain.InvoicePaid
	inv.PaidAt = paidAt
	if err := s.invoices.Update(ctx, inv); err != nil {
		log.Printf("settle_update_failed invoice=%d err=%v", inv.ID, err)
		return
	}

	s.record(ctx, 0, inv.ClientID, "payment.settled", p.ID, p.OrderID)
	s.notify(ctx, inv.ClientID, domain.NotifPaymentReceived,
		"Payment received",
		fmt.Sprintf("Invoice %s is paid. Thank you!", inv.Number))

	s.queue.Push(mail.TemplatePaymentReceipt, 3, map[string]string{
		"user_id": strconv.FormatInt(inv.ClientID, 10),
		"number":  inv.Number,
		"amount":  invoice.FormatAmount(inv.Currency, inv.Amount),
	})

	// admins get an in-app alert for every settled payment
	admins, _, err := s.users.List(ctx, string(domain.RoleAdmin), "", 1, 50)
	if err != nil {
		log.Printf("admin_notify_failed invoice=%d err=%v", inv.ID, err)
		return
	}
	for i := range admins {
		s.notify(ctx, admins[i].ID, domain.NotifPaymentReceived,
			"Invoice paid",
			fmt.Sprintf("Invoice %s (%s) was paid", inv.Number, invoice.FormatAmount(inv.Currency, inv.Amount)))
	}
}

// reopenInvoice puts a failed checkout back on pending so the client can try
// again. The payment row keeps its terminal state.
func (s *Service) reopenInvoice(ctx context.Context, p *domain.Payment, status domain.PaymentStatus) {
	inv, err := s.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		log.Printf("reopen_lookup_failed invoice=%d err=%v", p.InvoiceID, err)
		return
	}
	if inv.Status == domain.InvoicePaid || inv.Status == domain.InvoiceCancelled {
		return
	}

	if inv.Status != domain.InvoicePending {
		if err := s.invoices.UpdateStatus(ctx, inv.ID, domain.InvoicePending); err != nil {
			log.Printf("reopen_update_failed invoice=%d err=%v", inv.ID, err)
			return
		}
	}
	s.record(ctx, 0, inv.ClientID, "payment."+string(status), p.ID, p.OrderID)
}

// verifySignature checks sha512(orderID + statusCode + grossAmount + serverKey).
func (s *Service) verifySignature(n Notification) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + s.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// StatusFromGateway maps the gateway transaction status to our payment state.
// Capture only counts as paid when fraud screening accepted it.
func StatusFromGateway(transactionStatus, fraudStatus string) domain.PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return domain.PaymentPaid
		}
		return domain.PaymentDenied
	case "settlement":
		return domain.PaymentPaid
	case "pending":
		return domain.PaymentPending
	case "deny":
		return domain.PaymentDenied
	case "cancel":
		return domain.PaymentCancelled
	case "expire":
		return domain.PaymentExpired
	default:
		return domain.PaymentFailed
	}
}

func settlementTime(value string) time.Time {
	if value != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

func (s *Service) record(ctx context.Context, actorID, userID int64, action string, entityID int64, detail string) {
	err := s.recorder.CreateActivity(ctx, &domain.ActivityLog{
		ActorID:  actorID,
		UserID:   userID,
		Action:   action,
		Entity:   "payment",
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		log.Printf("activity_log_failed action=%s payment=%d err=%v", action, entityID, err)
	}
}

func (s *Service) notify(ctx context.Context, userID int64, notifType, title, body string) {
	err := s.recorder.Create(ctx, &domain.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		log.Printf("notification_failed type=%s user=%d err=%v", notifType, userID, err)
	}
}
