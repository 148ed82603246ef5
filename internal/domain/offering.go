package domain

import "time"

// ServiceOffering is an entry in the public service catalog (web design,
// branding, SEO, ...). Prices are indicative, in minor units.
type ServiceOffering struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `json:"name"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `json:"description,omitempty"`
	PriceFrom   int64  `json:"price_from"`
	Currency    string `gorm:"default:IDR" json:"currency"`
	SortOrder   int    `gorm:"index" json:"sort_order"`
	Active      bool   `gorm:"index;default:true" json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ServiceOffering) TableName() string { return "service_offerings" }
