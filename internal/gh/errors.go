package gh

import "fmt"

// AuthError indicates the selected transport cannot authenticate with
// GitHub. Hint carries the remediation shown to the operator.
type AuthError struct {
	Hint string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github authentication failed: %v (%s)", e.Err, e.Hint)
	}

	return fmt.Sprintf("github authentication failed (%s)", e.Hint)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failed gateway call with the operation that failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
