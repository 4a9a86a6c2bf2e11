package domain

import "errors"

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrContactNotFound   = errors.New("contact not found")
	ErrContactEmailTaken = errors.New("contact email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")

	// ErrInvalidToken covers malformed, expired, wrong-kind, and
	// already-consumed tokens without distinguishing between them.
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("access forbidden")
)
