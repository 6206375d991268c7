package probe

import "errors"

var (
	ErrEmptyHost        = errors.New("empty host")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNoCertificate    = errors.New("no peer certificate")
	ErrNoRegistration   = errors.New("no registration data")
)
