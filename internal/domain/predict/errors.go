package predict

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrModelUnavailable = errors.New("model not loaded")
)
