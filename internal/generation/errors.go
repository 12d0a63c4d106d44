package generation

import "fmt"

// APICallError represents a failed call to the model provider
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// OutputValidationError reports model output that does not match the expected shape
type OutputValidationError struct {
	Message string
	Cause   error
}

func (e *OutputValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid model output: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid model output: %s", e.Message)
}

func (e *OutputValidationError) Unwrap() error {
	return e.Cause
}
