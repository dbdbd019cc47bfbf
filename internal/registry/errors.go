package registry

import "fmt"

// TransientServiceError is returned when the registry kept rate limiting,
// timing out or was unreachable until the retry budget ran out.
type TransientServiceError struct {
	Message  string
	Attempts int
	Err      error
}

func (e *TransientServiceError) Error() string { return e.Message }

func (e *TransientServiceError) Unwrap() error { return e.Err }

// TerminalServiceError is a non-retryable rejection from the registry.
type TerminalServiceError struct {
	Status  int
	Message string
}

func (e *TerminalServiceError) Error() string { return e.Message }

// Fixed texts for registry rejections.
const (
	msgConflict        = "409 Conflict: You already donated from this address - no action needed"
	msgBadRequest      = "400 Bad Request: Invalid signature - ensure message format is exact"
	msgNotFound        = "404 Not Found: Address not registered in Scavenger Mine"
	msgMaxAttempts     = "Max retry attempts reached"
	networkErrorFormat = "Network error after %d attempts: %v"
)

func networkError(attempts int, err error) *TransientServiceError {
	return &TransientServiceError{
		Message:  fmt.Sprintf(networkErrorFormat, attempts, err),
		Attempts: attempts,
		Err:      err,
	}
}
