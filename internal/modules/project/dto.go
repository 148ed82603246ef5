package project

import "time"

type CreateProjectRequest struct {
	ClientID    int64      `json:"client_id" binding:"required"`
	Name        string     `json:"name" binding:"required,min=2"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
	DueDate     *time.Time `json:"due_date"`
}

type CreateMilestoneRequest struct {
	Title       string     `json:"title" binding:"required,min=2"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateMilestoneRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	SortOrder   *int       `json:"sort_order"`
	DueDate     *time.Time `json:"due_date"`
}
