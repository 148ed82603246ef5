package chat

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrForbidden    = errors.New("not a participant of this project")
	ErrEmptyMessage = errors.New("message needs text or an attachment")
)
