package domain

import "time"

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// Project belongs to one client user. Progress is 0-100; reaching 100 or the
// completed status counts as project completion.
type Project struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	ClientID    int64         `gorm:"index" json:"client_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `gorm:"index;default:planning" json:"status"`
	Progress    int           `gorm:"default:0" json:"progress"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`

	Milestones []Milestone `gorm:"foreignKey:ProjectID" json:"milestones,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) IsCompleted() bool {
	return p.Status == ProjectCompleted || p.Progress >= 100
}

// Milestone is ordered within its project by the explicit SortOrder field.
type Milestone struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	ProjectID   int64           `gorm:"index" json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      MilestoneStatus `gorm:"default:pending" json:"status"`
	SortOrder   int             `gorm:"index" json:"sort_order"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestones" }
