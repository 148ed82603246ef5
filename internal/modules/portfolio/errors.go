package portfolio

import "errors"

var (
	ErrNotFound    = errors.New("portfolio entry not found")
	ErrForbidden   = errors.New("not your image")
	ErrGalleryFull = errors.New("gallery image limit reached")
)
