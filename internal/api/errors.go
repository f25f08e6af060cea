package api

import "fmt"

// ValidationError reports input rejected before any request is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failed exchange with the provider. Either Err is
// set (the call never completed) or StatusCode and Message describe the
// provider's rejection.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api request failed: %v", e.Err)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
