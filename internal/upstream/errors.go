package upstream

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned while the breaker rejects calls to a failing upstream
var ErrCircuitOpen = errors.New("circuit breaker open")

// StatusError is a non-2xx response from an upstream
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
