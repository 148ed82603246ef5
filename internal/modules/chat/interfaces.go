package chat

import (
	"context"

	"wmx/internal/domain"
)

type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByProject(ctx context.Context, projectID int64, before int64, limit int) ([]domain.Message, error)
}

type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, role string, query string, page, limit int) ([]domain.User, int64, error)
}

type Recorder interface {
	Create(ctx context.Context, n *domain.Notification) error
}

type MailQueue interface {
	Push(itemType string, priority int, data map[string]string)
}

// Presence delivers live events and reports who is connected. Implemented by
// the websocket hub.
type Presence interface {
	SendToUser(userID int64, message any) bool
	IsOnline(userID int64) bool
}
