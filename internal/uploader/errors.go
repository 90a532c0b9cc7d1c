package uploader

import "fmt"

// FileReadError is a read failure other than a missing file.
type FileReadError struct {
	Path  string
	Cause error
}

func (e *FileReadError) Error() string {
	return e.Cause.Error()
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}

// JSONParseError is a store metadata file that is present but not valid JSON.
type JSONParseError struct {
	Path  string
	Cause error
}

func (e *JSONParseError) Error() string {
	return "invalid JSON: " + e.Cause.Error()
}

func (e *JSONParseError) Unwrap() error {
	return e.Cause
}

// TransportError is a failure to complete the HTTP exchange.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// RejectedError is a well-formed response whose status is not "success".
// Status and Message are nil when the body did not carry them.
type RejectedError struct {
	Status     *string
	Message    *string
	StatusCode int
}

func (e *RejectedError) Error() string {
	status := "Error"
	if e.Status != nil {
		status = *e.Status
	}

	message := fmt.Sprintf("HTTP %d", e.StatusCode)
	if e.Message != nil {
		message = *e.Message
	}

	return status + ": " + message
}
