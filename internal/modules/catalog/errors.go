package catalog

import "errors"

var (
	ErrNotFound  = errors.New("service offering not found")
	ErrSlugTaken = errors.New("slug already in use")
)
