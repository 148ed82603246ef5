package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"wmx/internal/database"
	"wmx/internal/domain"
	"wmx/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakePresence marks a fixed set of user ids as connected and records what
// was pushed to whom.
type fakePresence struct {
	online map[int64]bool
	pushed map[int64]int
}

func newFakePresence(online ...int64) *fakePresence {
	p := &fakePresence{online: map[int64]bool{}, pushed: map[int64]int{}}
	for _, id := range online {
		p.online[id] = true
	}
	return p
}

func (p *fakePresence) SendToUser(userID int64, message any) bool {
	if !p.online[userID] {
		return false
	}
	p.pushed[userID]++
	return true
}

func (p *fakePresence) IsOnline(userID int64) bool { return p.online[userID] }

type fakeQueue struct {
	items []struct {
		Type string
		Data map[string]string
	}
}

func (f *fakeQueue) Push(itemType string, priority int, data map[string]string) {
	f.items = append(f.items, struct {
		Type string
		Data map[string]string
	}{itemType, data})
}

func setupService(t *testing.T, presence Presence) (*Service, *fakeQueue, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	queue := &fakeQueue{}
	svc := NewService(
		repository.NewMessageRepository(db),
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		queue,
		presence,
	)
	return svc, queue, db
}

func seedConversation(t *testing.T, db *gorm.DB) (admin, client *domain.User, p *domain.Project) {
	t.Helper()

	admin = &domain.User{Email: "admin@example.com", PasswordHash: "x", Role: domain.RoleAdmin, Name: "Admin", IsActive: true, UnsubscribeToken: uuid.NewString()}
	require.NoError(t, db.Create(admin).Error)

	client = &domain.User{Email: "client@example.com", PasswordHash: "x", Role: domain.RoleClient, Name: "Client", IsActive: true, UnsubscribeToken: uuid.NewString()}
	require.NoError(t, db.Create(client).Error)

	p = &domain.Project{ClientID: client.ID, Name: "Website", Status: domain.ProjectInProgress}
	require.NoError(t, db.Create(p).Error)
	return admin, client, p
}

func TestSendMessageOfflineRecipientGetsNotified(t *testing.T) {
	presence := newFakePresence() // nobody connected
	svc, queue, db := setupService(t, presence)
	ctx := context.Background()
	admin, client, p := seedConversation(t, db)

	_, err := svc.SendMessage(ctx, admin.ID, true, p.ID, SendMessageRequest{Body: "Design draft is up"})
	require.NoError(t, err)

	var notifs []domain.Notification
	require.NoError(t, db.Where("user_id = ?", client.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	require.Equal(t, domain.NotifNewMessage, notifs[0].Type)
	require.Equal(t, "Design draft is up", notifs[0].Body)

	require.Len(t, queue.items, 1)
	require.Equal(t, "chat_message", queue.items[0].Type)
	require.Equal(t, fmt.Sprint(client.ID), queue.items[0].Data["user_id"])
	require.Equal(t, "Website", queue.items[0].Data["project_name"])
}

func TestSendMessageOnlineRecipientGetsNoEmail(t *testing.T) {
	presence := newFakePresence()
	svc, queue, db := setupService(t, presence)
	ctx := context.Background()
	admin, client, p := seedConversation(t, db)

	presence.online[client.ID] = true

	_, err := svc.SendMessage(ctx, admin.ID, true, p.ID, SendMessageRequest{Body: "hello"})
	require.NoError(t, err)

	require.Equal(t, 1, presence.pushed[client.ID])
	require.Empty(t, queue.items)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", client.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSendMessagePreviewTruncation(t *testing.T) {
	svc, queue, db := setupService(t, newFakePresence())
	ctx := context.Background()
	admin, _, p := seedConversation(t, db)

	long := strings.Repeat("a", 300)
	_, err := svc.SendMessage(ctx, admin.ID, true, p.ID, SendMessageRequest{Body: long})
	require.NoError(t, err)

	require.Len(t, queue.items, 1)
	preview := queue.items[0].Data["preview"]
	require.Equal(t, strings.Repeat("a", previewLength)+"…", preview)
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, db := setupService(t, newFakePresence())
	ctx := context.Background()
	admin, client, p := seedConversation(t, db)

	_, err := svc.SendMessage(ctx, admin.ID, true, p.ID, SendMessageRequest{Body: "   "})
	require.ErrorIs(t, err, ErrEmptyMessage)

	// attachment-only messages are allowed
	m, err := svc.SendMessage(ctx, client.ID, false, p.ID, SendMessageRequest{
		Attachments: []AttachmentInput{{URL: "https://cdn.example.com/f.pdf", FileName: "f.pdf", Size: 100, MimeType: "application/pdf"}},
	})
	require.NoError(t, err)
	require.Len(t, m.Attachments, 1)

	// a stranger cannot post into the project
	_, err = svc.SendMessage(ctx, client.ID+100, false, p.ID, SendMessageRequest{Body: "hi"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SendMessage(ctx, admin.ID, true, 999, SendMessageRequest{Body: "hi"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryOrderAndPaging(t *testing.T) {
	svc, _, db := setupService(t, newFakePresence())
	ctx := context.Background()
	admin, client, p := seedConversation(t, db)

	for i := 1; i <= 5; i++ {
		_, err := svc.SendMessage(ctx, admin.ID, true, p.ID, SendMessageRequest{Body: fmt.Sprintf("msg %d", i)})
		require.NoError(t, err)
	}

	messages, err := svc.History(ctx, client.ID, false, p.ID, 0, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	// oldest-first within the page, page holds the newest messages
	require.Equal(t, "msg 3", messages[0].Body)
	require.Equal(t, "msg 5", messages[2].Body)

	// page backwards from the oldest id of the previous page
	older, err := svc.History(ctx, client.ID, false, p.ID, messages[0].ID, 3)
	require.NoError(t, err)
	require.Len(t, older, 2)
	require.Equal(t, "msg 1", older[0].Body)
	require.Equal(t, "msg 2", older[1].Body)
}
