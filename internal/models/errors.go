package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidEstimate = errors.New("invalid model estimate")
	ErrInvalidQuote    = errors.New("invalid market quote")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
