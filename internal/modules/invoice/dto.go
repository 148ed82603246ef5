package invoice

import "time"

type CreateInvoiceRequest struct {
	ProjectID int64      `json:"project_id" binding:"required"`
	Amount    int64      `json:"amount" binding:"required,gt=0"`
	Currency  string     `json:"currency"`
	Notes     string     `json:"notes"`
	DueDate   *time.Time `json:"due_date"`
}

type UpdateInvoiceRequest struct {
	Amount  *int64     `json:"amount"`
	Notes   *string    `json:"notes"`
	DueDate *time.Time `json:"due_date"`
}
