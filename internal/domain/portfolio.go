package domain

import "time"

// PortfolioItem is a public marketing case study managed by admins.
type PortfolioItem struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `gorm:"index" json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ProjectURL  string `json:"project_url,omitempty"`
	SortOrder   int    `gorm:"index" json:"sort_order"`
	Published   bool   `gorm:"index;default:false" json:"published"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PortfolioItem) TableName() string { return "portfolio_items" }

// PortfolioImage is one image in a user's gallery, capped per user.
type PortfolioImage struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index" json:"user_id"`
	URL       string `json:"url"`
	ObjectKey string `json:"-"`
	Caption   string `json:"caption,omitempty"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PortfolioImage) TableName() string { return "portfolio_images" }
