// pkg/harmonia_err/types.go

package harmonia_err

import "errors"

var ErrFallbackUsed = errors.New("fallback logger used")

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}
