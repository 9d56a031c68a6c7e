package entity

import (
	"errors"
)

var (
	ErrDataNotFound     = errors.New("data not found")
	ErrDraftNotFound    = errors.New("wizard draft not found or expired")
	ErrConflictingData  = errors.New("data conflicts with existing data in unique column")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidData      = errors.New("invalid data")
	ErrInvalidPassword  = errors.New("invalid email or password")
	ErrUnauthorized     = errors.New("authentication required")
	ErrConfigPathNotSet = errors.New("CONFIG_PATH not set and -config flag not provided")
)
