package services

import "errors"

var (
	// ErrSuperseded is returned when a newer session operation started
	// before this one finished; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer session operation")

	// ErrInvalidInput is returned, wrapped with the reason, when input is
	// rejected before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResetNotReady is returned when a new password is submitted before
	// the reset token was validated.
	ErrResetNotReady = errors.New("password reset token not validated")

	// ErrPasswordMismatch is returned when the password confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrResetFailed is returned when the server refused the new password.
	ErrResetFailed = errors.New("password reset failed")

	errNoUser = errors.New("session response carried no user")
)
