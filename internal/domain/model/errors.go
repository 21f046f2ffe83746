package model

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidModel = errors.New("invalid model")
	ErrRowWidth     = errors.New("row width mismatch")
)
