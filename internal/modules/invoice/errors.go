package invoice

import "errors"

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrForbidden   = errors.New("not your invoice")
	ErrNotDraft    = errors.New("invoice is no longer a draft")
	ErrNotIssuable = errors.New("only draft invoices can be issued")
	ErrAlreadyPaid = errors.New("invoice is already paid")
)
