package provider

import "fmt"

// ErrorCode classifies question generation failures.
type ErrorCode string

const (
	CodeNetwork           ErrorCode = "NETWORK_FAILURE"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeBatchFetch        ErrorCode = "BATCH_FETCH_FAILURE"
)

// FetchError is a question generation failure with its cause.
type FetchError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Sentinels for errors.Is; any FetchError with the same code matches.
var (
	ErrNetwork           = &FetchError{Code: CodeNetwork, Message: "network failure"}
	ErrMalformedResponse = &FetchError{Code: CodeMalformedResponse, Message: "malformed response"}
	ErrBatchFetch        = &FetchError{Code: CodeBatchFetch, Message: "batch fetch failed"}
)

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches on the error code.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Code == e.Code
}

func newNetworkError(message string, err error) *FetchError {
	return &FetchError{Code: CodeNetwork, Message: message, Err: err}
}

func newMalformedError(message string, err error) *FetchError {
	return &FetchError{Code: CodeMalformedResponse, Message: message, Err: err}
}

func newBatchError(message string, err error) *FetchError {
	return &FetchError{Code: CodeBatchFetch, Message: message, Err: err}
}
