package domain

import "time"

// Message is a project chat message. Attachments are child rows.
type Message struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	ProjectID int64  `gorm:"index" json:"project_id"`
	SenderID  int64  `gorm:"index" json:"sender_id"`
	Body      string `json:"body"`

	Attachments []Attachment `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

type Attachment struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	MessageID int64  `gorm:"index" json:"message_id"`
	URL       string `json:"url"`
	FileName  string `json:"file_name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }
