package invoice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"wmx/internal/domain"
	"wmx/internal/mail"

	"gorm.io/gorm"
)

type Service struct {
	invoices InvoiceRepositoryInterface
	projects ProjectReader
	recorder Recorder
	queue    MailQueue
}

func NewService(invoices InvoiceRepositoryInterface, projects ProjectReader, recorder Recorder, queue MailQueue) *Service {
	return &Service{invoices: invoices, projects: projects, recorder: recorder, queue: queue}
}

// Create opens a draft invoice against a project. The client is taken from
// the project, not the request, so an invoice can never point at a client
// who does not own the project.
func (s *Service) Create(ctx context.Context, actorID int64, req CreateInvoiceRequest) (*domain.Invoice, error) {
	p, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "IDR"
	}

	inv := &domain.Invoice{
		Number:    newInvoiceNumber(),
		ProjectID: p.ID,
		ClientID:  p.ClientID,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    domain.InvoiceDraft,
		Notes:     req.Notes,
		DueDate:   req.DueDate,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, inv.ClientID, "invoice.created", inv.ID, inv.Number)
	return inv, nil
}

func (s *Service) Update(ctx context.Context, actorID, invoiceID int64, req UpdateInvoiceRequest) (*domain.Invoice, error) {
	inv, err := s.get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDraft {
		return nil, ErrNotDraft
	}

	if req.Amount != nil {
		inv.Amount = *req.Amount
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, inv.ClientID, "invoice.updated", inv.ID, inv.Number)
	return inv, nil
}

// Issue moves a draft to pending and tells the client about it.
func (s *Service) Issue(ctx context.Context, actorID, invoiceID int64) (*domain.Invoice, error) {
	inv, err := s.get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDraft {
		return nil, ErrNotIssuable
	}

	inv.Status = domain.InvoicePending
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, inv.ClientID, "invoice.issued", inv.ID, inv.Number)
	s.notify(ctx, inv.ClientID, domain.NotifInvoiceIssued,
		"New invoice",
		fmt.Sprintf("Invoice %s for %s is ready for payment", inv.Number, FormatAmount(inv.Currency, inv.Amount)))
	return inv, nil
}

func (s *Service) Cancel(ctx context.Context, actorID, invoiceID int64) (*domain.Invoice, error) {
	inv, err := s.get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, ErrAlreadyPaid
	}

	inv.Status = domain.InvoiceCancelled
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, inv.ClientID, "invoice.cancelled", inv.ID, inv.Number)
	return inv, nil
}

func (s *Service) GetForUser(ctx context.Context, userID int64, isAdmin bool, invoiceID int64) (*domain.Invoice, error) {
	inv, err := s.get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && inv.ClientID != userID {
		return nil, ErrForbidden
	}
	return inv, nil
}

func (s *Service) ListMine(ctx context.Context, clientID int64) ([]domain.Invoice, error) {
	return s.invoices.ListByClient(ctx, clientID)
}

func (s *Service) ListAll(ctx context.Context, status string, page, limit int) ([]domain.Invoice, int64, error) {
	return s.invoices.ListAll(ctx, status, page, limit)
}

// SweepResult reports what one overdue pass did.
type SweepResult struct {
	MarkedOverdue int `json:"marked_overdue"`
	Reminders     int `json:"reminders"`
}

// SweepOverdue marks past-due pending invoices as overdue and queues one
// reminder email each. Run from the cron endpoint.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	due, err := s.invoices.ListPendingDueBefore(ctx, now)
	if err != nil {
		return res, err
	}

	for i := range due {
		inv := &due[i]
		if err := s.invoices.UpdateStatus(ctx, inv.ID, domain.InvoiceOverdue); err != nil {
			log.Printf("overdue_mark_failed invoice=%d err=%v", inv.ID, err)
			continue
		}
		res.MarkedOverdue++

		s.notify(ctx, inv.ClientID, domain.NotifInvoiceOverdue,
			"Invoice overdue",
			fmt.Sprintf("Invoice %s is past its due date", inv.Number))

		dueDate := ""
		if inv.DueDate != nil {
			dueDate = inv.DueDate.Format("2 Jan 2006")
		}
		s.queue.Push(mail.TemplateInvoiceReminder, 2, map[string]string{
			"user_id":  strconv.FormatInt(inv.ClientID, 10),
			"number":   inv.Number,
			"amount":   FormatAmount(inv.Currency, inv.Amount),
			"due_date": dueDate,
		})
		res.Reminders++
	}
	return res, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) record(ctx context.Context, actorID, userID int64, action string, entityID int64, detail string) {
	err := s.recorder.CreateActivity(ctx, &domain.ActivityLog{
		ActorID:  actorID,
		UserID:   userID,
		Action:   action,
		Entity:   "invoice",
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		log.Printf("activity_log_failed action=%s invoice=%d err=%v", action, entityID, err)
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

// newInvoiceNumber builds a human-readable unique number like
// INV-20260828-3f9a2c.
func newInvoiceNumber() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), hex.EncodeToString(buf))
}

// FormatAmount renders minor units for display. IDR carries no decimal part;
// everything else is treated as cents.
func FormatAmount(currency string, amount int64) string {
	if currency == "IDR" {
		return fmt.Sprintf("IDR %d", amount)
	}
	return fmt.Sprintf("%s %d.%02d", currency, amount/100, amount%100)
}
