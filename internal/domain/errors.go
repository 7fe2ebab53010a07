package domain

import "errors"

var (
	ErrAPIBaseNotConfigured = errors.New("API base URL is not configured")
	ErrNoPhoneSelected      = errors.New("select phone")
	ErrBusy                 = errors.New("a request is already in progress")
	ErrNoMorePages          = errors.New("no more pages to load")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionHasNoCall     = errors.New("session has no call id")
	ErrOperatorNotFound     = errors.New("operator not found")
	ErrNotOperator          = errors.New("not an operator")
	ErrConfirmationExpired  = errors.New("confirmation expired")
	ErrNothingInFlight      = errors.New("no request in flight")
)
