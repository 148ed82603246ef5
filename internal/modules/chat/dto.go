package chat

type AttachmentInput struct {
	URL      string `json:"url" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type SendMessageRequest struct {
	Body        string            `json:"body"`
	Attachments []AttachmentInput `json:"attachments" binding:"max=5,dive"`
}

// WSClientMessage is what the browser sends over the socket.
type WSClientMessage struct {
	Type      string `json:"type"` // message | typing | ping
	ProjectID int64  `json:"project_id"`
	Body      string `json:"body"`
	IsTyping  bool   `json:"is_typing"`
}

// WSEvent is what the server pushes.
type WSEvent struct {
	Type      string `json:"type"` // message | typing | error | pong
	ProjectID int64  `json:"project_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

func newMessageEvent(projectID int64, payload any) WSEvent {
	return WSEvent{Type: "message", ProjectID: projectID, Payload: payload}
}

func newTypingEvent(projectID, userID int64, typing bool) WSEvent {
	return WSEvent{Type: "typing", ProjectID: projectID, Payload: map[string]any{
		"user_id":   userID,
		"is_typing": typing,
	}}
}

func newErrorEvent(code, message string) WSEvent {
	return WSEvent{Type: "error", Code: code, Message: message}
}

func newPongEvent() WSEvent { return WSEvent{Type: "pong"} }
