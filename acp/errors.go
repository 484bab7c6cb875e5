package acp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a run is requested without messages.
	ErrEmptyInput = errors.New("run input must contain at least one message")

	// ErrEmptyMessage is returned when a message has no parts.
	ErrEmptyMessage = errors.New("message must contain at least one part")

	// ErrClientClosed is returned by calls made after Close.
	ErrClientClosed = errors.New("acp client is closed")
)

// ErrorCode classifies protocol errors.
type ErrorCode string

const (
	ErrorCodeServer       ErrorCode = "server_error"
	ErrorCodeInvalidInput ErrorCode = "invalid_input"
	ErrorCodeNotFound     ErrorCode = "not_found"
)

// Error is the error object returned by ACP servers, either as a response
// body or attached to a failed run.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("acp %s: %s", e.Code, e.Message)
}

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Err        *Error // decoded protocol error, nil if the body had none
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Err.Error())
	}
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Unwrap returns the protocol error so errors.As(err, **acp.Error) works.
func (e *HTTPError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}
