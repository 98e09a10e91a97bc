package domain

import "errors"

// Sentinel errors returned by the use cases. Adapters map them to transport
// status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidURL   = errors.New("invalid url")
	ErrEmptyMessage = errors.New("empty message")
)
