package project

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrForbidden    = errors.New("not your project")
	ErrBadProgress  = errors.New("progress must be between 0 and 100")
	ErrBadStatus    = errors.New("unknown project status")
	ErrBadMilestone = errors.New("milestone does not belong to project")
)
