package api

import (
	"errors"
	"fmt"
)

// Failure classes. Every error returned by Client.Do matches exactly one of
// these with errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrStatus    = errors.New("unexpected http status")
	ErrDecode    = errors.New("undecodable response")
	ErrRejected  = errors.New("request rejected")
)

// TransportError wraps a failure to reach the backend.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StatusError reports a non-2xx response. The body is kept verbatim.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d, Response: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// DecodeError reports a response body that is not a valid envelope.
type DecodeError struct {
	Endpoint string
	Body     string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("JSON Parse error: %v, Response: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// RejectedError is a well-formed envelope with success=false. Message is the
// server text, unmodified.
type RejectedError struct {
	Endpoint string
	Message  string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "request rejected by server"
	}
	return e.Message
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// ServerMessage returns the server-provided message of a rejection, or
// fallback for any other error.
func ServerMessage(err error, fallback string) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return fallback
}
