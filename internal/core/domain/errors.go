package domain

import "errors"

// ErrInvalidID is returned when an identity is zero or negative.
var ErrInvalidID = errors.New("invalid id")

// ErrInvalidInput is returned when a required payload is missing.
var ErrInvalidInput = errors.New("invalid input")
