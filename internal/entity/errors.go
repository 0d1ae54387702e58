package entity

import "errors"

// Domain errors
var (
	// Client errors
	ErrClientNotFound     = errors.New("client not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrClientNotApproved  = errors.New("client account is not approved")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")

	// FAQ errors
	ErrFAQNotFound       = errors.New("faq not found")
	ErrDuplicateQuestion = errors.New("question already exists")

	// Chat errors
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrInvalidSession = errors.New("invalid session id")

	// Import/export errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
