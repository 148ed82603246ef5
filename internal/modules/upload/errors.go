package upload

import "errors"

var (
	ErrStorageDisabled = errors.New("object storage not configured")
	ErrUnknownKind     = errors.New("unknown upload kind")
	ErrBadFileName     = errors.New("file name not allowed")
	ErrExtBlocked      = errors.New("file extension not allowed")
	ErrBadMimeType     = errors.New("file type not allowed for this upload")
	ErrTooLarge        = errors.New("file exceeds the size limit")
	ErrContentMismatch = errors.New("file content does not match its type")
)
