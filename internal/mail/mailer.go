package mail

import (
	"context"
	"fmt"
	"log"

	"wmx/internal/domain"
)

// EmailLogWriter records delivery attempts; implemented by the notification
// repository.
type EmailLogWriter interface {
	CreateEmailLog(ctx context.Context, e *domain.EmailLog) error
}

// Mailer renders templates and delivers them through the configured Sender,
// recording every attempt in the email log. Send failures are returned to the
// caller; most call sites treat them as best-effort and only log.
type Mailer struct {
	sender  Sender
	logs    EmailLogWriter
	baseURL string
}

func NewMailer(sender Sender, logs EmailLogWriter, baseURL string) *Mailer {
	return &Mailer{sender: sender, logs: logs, baseURL: baseURL}
}

func (m *Mailer) SendWelcome(ctx context.Context, user *domain.User) error {
	subject, html := renderWelcome(user.Name, m.baseURL, user.UnsubscribeToken)
	return m.deliver(ctx, user, TemplateWelcome, subject, html)
}

func (m *Mailer) SendVerificationCode(ctx context.Context, user *domain.User, code string) error {
	subject, html := renderVerifyCode(user.Name, code)
	return m.deliver(ctx, user, TemplateVerifyCode, subject, html)
}

func (m *Mailer) SendMagicLink(ctx context.Context, user *domain.User, token string) error {
	link := fmt.Sprintf("%s/auth/magic?token=%s", m.baseURL, token)
	subject, html := renderMagicLink(user.Name, link)
	return m.deliver(ctx, user, TemplateMagicLink, subject, html)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	link := fmt.Sprintf("%s/auth/reset?token=%s", m.baseURL, token)
	subject, html := renderPasswordReset(user.Name, link)
	return m.deliver(ctx, user, TemplatePasswordReset, subject, html)
}

func (m *Mailer) SendInvoiceReminder(ctx context.Context, user *domain.User, number, amount, dueDate string) error {
	if !user.EmailNotifications || !user.InvoiceReminders {
		return m.skip(ctx, user, TemplateInvoiceReminder, "invoice reminders disabled")
	}
	subject, html := renderInvoiceReminder(user.Name, number, amount, dueDate, m.baseURL, user.UnsubscribeToken)
	return m.deliver(ctx, user, TemplateInvoiceReminder, subject, html)
}

func (m *Mailer) SendPaymentReceipt(ctx context.Context, user *domain.User, number, amount string) error {
	subject, html := renderPaymentReceipt(user.Name, number, amount, m.baseURL, user.UnsubscribeToken)
	return m.deliver(ctx, user, TemplatePaymentReceipt, subject, html)
}

func (m *Mailer) SendChatMessage(ctx context.Context, user *domain.User, projectName, preview string) error {
	if !user.EmailNotifications || !user.ChatNotifications {
		return m.skip(ctx, user, TemplateChatMessage, "chat notifications disabled")
	}
	subject, html := renderChatMessage(user.Name, projectName, preview, m.baseURL, user.UnsubscribeToken)
	return m.deliver(ctx, user, TemplateChatMessage, subject, html)
}

func (m *Mailer) SendProjectStatus(ctx context.Context, user *domain.User, projectName, status string, progress int) error {
	if !user.EmailNotifications || !user.ProjectUpdates {
		return m.skip(ctx, user, TemplateProjectStatus, "project updates disabled")
	}
	subject, html := renderProjectStatus(user.Name, projectName, status, progress, m.baseURL, user.UnsubscribeToken)
	return m.deliver(ctx, user, TemplateProjectStatus, subject, html)
}

func (m *Mailer) deliver(ctx context.Context, user *domain.User, template, subject, html string) error {
	err := m.sender.Send(ctx, user.Email, subject, html)

	entry := &domain.EmailLog{
		UserID:    user.ID,
		Recipient: user.Email,
		Template:  template,
		Subject:   subject,
		Status:    "sent",
	}
	if err != nil {
		entry.Status = "failed"
		entry.Error = err.Error()
	}
	if m.logs != nil {
		if logErr := m.logs.CreateEmailLog(ctx, entry); logErr != nil {
			log.Printf("email_log_write_failed template=%s recipient=%s err=%v", template, user.Email, logErr)
		}
	}
	return err
}

func (m *Mailer) skip(ctx context.Context, user *domain.User, template, reason string) error {
	if m.logs != nil {
		_ = m.logs.CreateEmailLog(ctx, &domain.EmailLog{
			UserID:    user.ID,
			Recipient: user.Email,
			Template:  template,
			Status:    "skipped",
			Error:     reason,
		})
	}
	return nil
}
