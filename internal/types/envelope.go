package types

// UnknownError is reported when a failure carries no message
const UnknownError = "Unknown error"

// Result is the envelope returned by write actions.
type Result struct {
	Success    bool   `json:"success"`
	ID         string `json:"id,omitempty"`
	FeedbackID string `json:"feedbackId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Envelope wraps read responses in the same success/error shape as Result.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Failure converts an error into a failed Result
func Failure(err error) Result {
	return Result{Success: false, Error: ErrorMessage(err)}
}

// ErrorMessage returns err's message or UnknownError
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return UnknownError
	}
	return err.Error()
}
