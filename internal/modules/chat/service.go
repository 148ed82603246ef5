package chat

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"wmx/internal/domain"
	"wmx/internal/mail"

	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	previewLength       = 120
)

type Service struct {
	messages MessageRepositoryInterface
	projects ProjectReader
	users    UserReader
	recorder Recorder
	queue    MailQueue
	presence Presence
}

func NewService(messages MessageRepositoryInterface, projects ProjectReader, users UserReader, recorder Recorder, queue MailQueue, presence Presence) *Service {
	return &Service{
		messages: messages,
		projects: projects,
		users:    users,
		recorder: recorder,
		queue:    queue,
		presence: presence,
	}
}

// SendMessage stores the message and pushes it to everyone in the project
// conversation. Recipients without a live socket get an in-app notification
// and a queued email instead.
func (s *Service) SendMessage(ctx context.Context, senderID int64, isAdmin bool, projectID int64, req SendMessageRequest) (*domain.Message, error) {
	p, err := s.authorize(ctx, senderID, isAdmin, projectID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	m := &domain.Message{
		ProjectID: projectID,
		SenderID:  senderID,
		Body:      body,
	}
	for _, a := range req.Attachments {
		m.Attachments = append(m.Attachments, domain.Attachment{
			URL:      a.URL,
			FileName: a.FileName,
			Size:     a.Size,
			MimeType: a.MimeType,
		})
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	event := newMessageEvent(projectID, m)
	s.presence.SendToUser(senderID, event)
	for _, recipientID := range s.recipients(ctx, p, senderID) {
		if s.presence.SendToUser(recipientID, event) {
			continue
		}
		s.notifyOffline(ctx, recipientID, p, m)
	}

	return m, nil
}

// History returns messages oldest-first, paged backwards with a before-id
// cursor.
func (s *Service) History(ctx context.Context, userID int64, isAdmin bool, projectID, before int64, limit int) ([]domain.Message, error) {
	if _, err := s.authorize(ctx, userID, isAdmin, projectID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.messages.ListByProject(ctx, projectID, before, limit)
	if err != nil {
		return nil, err
	}

	// repo returns newest-first for the cursor; flip for display
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Typing relays the indicator without persisting anything.
func (s *Service) Typing(ctx context.Context, userID int64, isAdmin bool, projectID int64, typing bool) {
	p, err := s.authorize(ctx, userID, isAdmin, projectID)
	if err != nil {
		return
	}

	event := newTypingEvent(projectID, userID, typing)
	for _, recipientID := range s.recipients(ctx, p, userID) {
		s.presence.SendToUser(recipientID, event)
	}
}

// authorize loads the project and checks the caller may use its conversation.
func (s *Service) authorize(ctx context.Context, userID int64, isAdmin bool, projectID int64) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && p.ClientID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

// recipients is everyone in the conversation except the sender: the project
// client plus all admins.
func (s *Service) recipients(ctx context.Context, p *domain.Project, senderID int64) []int64 {
	seen := map[int64]struct{}{senderID: {}}
	var out []int64

	if _, ok := seen[p.ClientID]; !ok {
		seen[p.ClientID] = struct{}{}
		out = append(out, p.ClientID)
	}

	admins, _, err := s.users.List(ctx, string(domain.RoleAdmin), "", 1, 50)
	if err != nil {
		log.Printf("chat_admin_list_failed project=%d err=%v", p.ID, err)
		return out
	}
	for i := range admins {
		if _, ok := seen[admins[i].ID]; ok {
			continue
		}
		seen[admins[i].ID] = struct{}{}
		out = append(out, admins[i].ID)
	}
	return out
}

func (s *Service) notifyOffline(ctx context.Context, recipientID int64, p *domain.Project, m *domain.Message) {
	preview := m.Body
	if preview == "" {
		preview = "Sent an attachment"
	}
	if len(preview) > previewLength {
		preview = preview[:previewLength] + "…"
	}

	err := s.recorder.Create(ctx, &domain.Notification{
		UserID: recipientID,
		Type:   domain.NotifNewMessage,
		Title:  "New message in " + p.Name,
		Body:   preview,
	})
	if err != nil {
		log.Printf("notification_failed type=%s user=%d err=%v", domain.NotifNewMessage, recipientID, err)
	}

	s.queue.Push(mail.TemplateChatMessage, 1, map[string]string{
		"user_id":      strconv.FormatInt(recipientID, 10),
		"project_name": p.Name,
		"preview":      preview,
	})
}
