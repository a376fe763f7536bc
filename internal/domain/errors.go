package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownSystem   = errors.New("unknown measurement system")
	ErrEmptyLine       = errors.New("empty ingredient line")
)
