package catalog

import (
	"errors"
	"fmt"
)

// RemoteError reports a response the client could not use: a non-2xx
// status, or a 2xx body that did not decode.
type RemoteError struct {
	Op         string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %s", e.Op, e.URL, status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// TransportError reports a request that never produced a response:
// connection refused, DNS failure, timeout or cancellation.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRemote reports whether err is or wraps a *RemoteError
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// IsTransport reports whether err is or wraps a *TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status carried by a wrapped *RemoteError, or 0
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
