package repository

import (
	"context"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores the message and its attachment rows in one transaction.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attachments := m.Attachments
		m.Attachments = nil
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].MessageID = m.ID
		}
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		m.Attachments = attachments
		return nil
	})
}

func (r *MessageRepository) ListByProject(ctx context.Context, projectID int64, before int64, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("project_id = ?", projectID)
	if before > 0 {
		q = q.Where("id < ?", before)
	}

	var messages []domain.Message
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	var m domain.Message
	if err := r.db.WithContext(ctx).Preload("Attachments").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
