package api

import "fmt"

// NetworkError covers transport failures and non-success HTTP statuses.
// Status is zero when the request never reached the server.
type NetworkError struct {
	Status  int
	Message string
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// ValidationError is a rejected create/update payload; it is surfaced inline
// next to the offending form rather than as a toast.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
