package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrDuplicate       = errors.New("duplicate record")
	ErrAlreadyReviewed = errors.New("detection already reviewed")
	ErrLoanClosed      = errors.New("loan is closed")
)
