package cron

import (
	"context"
	"testing"

	"wmx/internal/domain"
	"wmx/internal/mail"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type captureSender struct {
	sent []string // recipients
}

func (c *captureSender) Send(ctx context.Context, to, subject, html string) error {
	c.sent = append(c.sent, to)
	return nil
}

type fakeUsers struct {
	users map[int64]*domain.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func newTestDispatcher(sender *captureSender, users *fakeUsers) *Dispatcher {
	mailer := mail.NewMailer(sender, nil, "https://wmx.example")
	return NewDispatcher(mailer, users)
}

func subscribedUser(id int64) *domain.User {
	return &domain.User{
		ID:                 id,
		Email:              "client@example.com",
		Name:               "Client",
		EmailNotifications: true,
		InvoiceReminders:   true,
		ChatNotifications:  true,
		ProjectUpdates:     true,
	}
}

func TestSendDeliversKnownTypes(t *testing.T) {
	sender := &captureSender{}
	d := newTestDispatcher(sender, &fakeUsers{users: map[int64]*domain.User{7: subscribedUser(7)}})
	ctx := context.Background()

	items := []mail.Item{
		{Type: mail.TemplateInvoiceReminder, Data: map[string]string{"user_id": "7", "number": "INV-1", "amount": "IDR 100", "due_date": "1 Aug 2026"}},
		{Type: mail.TemplatePaymentReceipt, Data: map[string]string{"user_id": "7", "number": "INV-1", "amount": "IDR 100"}},
		{Type: mail.TemplateChatMessage, Data: map[string]string{"user_id": "7", "project_name": "Website", "preview": "hello"}},
		{Type: mail.TemplateProjectStatus, Data: map[string]string{"user_id": "7", "project_name": "Website", "status": "in_progress", "progress": "45"}},
	}
	for _, item := range items {
		require.NoError(t, d.Send(ctx, item))
	}
	require.Len(t, sender.sent, 4)
}

func TestSendSkipsUnknownType(t *testing.T) {
	d := newTestDispatcher(&captureSender{}, &fakeUsers{users: map[int64]*domain.User{7: subscribedUser(7)}})

	err := d.Send(context.Background(), mail.Item{Type: "carrier_pigeon", Data: map[string]string{"user_id": "7"}})
	require.ErrorIs(t, err, errSkipItem)
}

func TestSendSkipsBadUserID(t *testing.T) {
	d := newTestDispatcher(&captureSender{}, &fakeUsers{users: map[int64]*domain.User{}})
	ctx := context.Background()

	err := d.Send(ctx, mail.Item{Type: mail.TemplatePaymentReceipt, Data: map[string]string{"user_id": "not-a-number"}})
	require.ErrorIs(t, err, errSkipItem)

	err = d.Send(ctx, mail.Item{Type: mail.TemplatePaymentReceipt, Data: nil})
	require.ErrorIs(t, err, errSkipItem)
}

func TestSendHonorsCurrentPreferences(t *testing.T) {
	sender := &captureSender{}
	muted := subscribedUser(7)
	muted.EmailNotifications = false
	d := newTestDispatcher(sender, &fakeUsers{users: map[int64]*domain.User{7: muted}})

	// preference checked at send time: no delivery, but not an error either
	err := d.Send(context.Background(), mail.Item{
		Type: mail.TemplateInvoiceReminder,
		Data: map[string]string{"user_id": "7", "number": "INV-1", "amount": "IDR 100"},
	})
	require.NoError(t, err)
	require.Empty(t, sender.sent)
}
