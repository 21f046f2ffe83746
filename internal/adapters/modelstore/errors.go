package modelstore

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLoadFailed = errors.New("model load failed")
)
