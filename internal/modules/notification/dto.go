package notification

type BroadcastRequest struct {
	Title string `json:"title" binding:"required,min=2"`
	Body  string `json:"body" binding:"required"`
	Link  string `json:"link"`
	Role  string `json:"role"` // empty broadcasts to everyone
}
