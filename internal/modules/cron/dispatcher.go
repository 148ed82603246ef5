package cron

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"wmx/internal/domain"
	"wmx/internal/mail"
)

// UserReader resolves queued item user ids to fresh user rows, so preference
// changes made after queueing still apply at send time.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

var errSkipItem = errors.New("queued item dropped")

// Dispatcher turns queued mail items back into mailer calls.
type Dispatcher struct {
	mailer *mail.Mailer
	users  UserReader
}

func NewDispatcher(mailer *mail.Mailer, users UserReader) *Dispatcher {
	return &Dispatcher{mailer: mailer, users: users}
}

// Send handles one queue item. Unknown types and unknown users return
// errSkipItem-wrapped errors; the queue will retry once and then drop them.
func (d *Dispatcher) Send(ctx context.Context, item mail.Item) error {
	userID, err := strconv.ParseInt(item.Data["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		return fmt.Errorf("%w: bad user_id %q", errSkipItem, item.Data["user_id"])
	}

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	switch item.Type {
	case mail.TemplateInvoiceReminder:
		return d.mailer.SendInvoiceReminder(ctx, user, item.Data["number"], item.Data["amount"], item.Data["due_date"])
	case mail.TemplatePaymentReceipt:
		return d.mailer.SendPaymentReceipt(ctx, user, item.Data["number"], item.Data["amount"])
	case mail.TemplateChatMessage:
		return d.mailer.SendChatMessage(ctx, user, item.Data["project_name"], item.Data["preview"])
	case mail.TemplateProjectStatus:
		progress, _ := strconv.Atoi(item.Data["progress"])
		return d.mailer.SendProjectStatus(ctx, user, item.Data["project_name"], item.Data["status"], progress)
	default:
		return fmt.Errorf("%w: unknown type %q", errSkipItem, item.Type)
	}
}
