package payment

import "errors"

var (
	ErrGatewayDisabled = errors.New("payment gateway not configured")
	ErrNotFound        = errors.New("payment not found")
	ErrForbidden       = errors.New("not your payment")
	ErrNotPayable      = errors.New("invoice is not payable")
	ErrBadSignature    = errors.New("notification signature mismatch")
	ErrBadNotification = errors.New("notification payload invalid")
)
