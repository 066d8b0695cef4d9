package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// NetworkError indicates the request never produced an HTTP response
// (connection refused, DNS failure, timeout). Its message is the
// underlying transport error.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network request failed"
	}
	var uerr *url.Error
	if errors.As(e.Err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError indicates the backend answered with a non-2xx status.
type ProtocolError struct {
	StatusCode int
	// Message is the server's {"message": ...} text, if any.
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Message returns the server-provided message when err is a protocol
// failure that carried one, and err's own text otherwise. Write screens
// alert with it.
func Message(err error) string {
	var pe *ProtocolError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}

// InvalidResponseError indicates a 2xx response whose body could not be
// decoded or did not match the expected shape.
type InvalidResponseError struct {
	Body []byte
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsProtocol reports whether err is a non-2xx response, and returns its
// status code.
func IsProtocol(err error) (int, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.StatusCode, true
	}
	return 0, false
}

// IsContext reports whether err came from cancellation or a deadline.
func IsContext(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
