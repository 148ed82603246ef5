package admin

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrBadRole      = errors.New("unknown role")
	ErrLastAdmin    = errors.New("cannot demote or deactivate the last admin")
)
