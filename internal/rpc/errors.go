// internal/rpc/errors.go
package rpc

import "fmt"

// RequestInfo identifies the request that failed
type RequestInfo struct {
	Method string
	URL    string
}

// ResponseInfo is the status line of a non-success response
type ResponseInfo struct {
	Status     int
	StatusText string
}

// TransportError is returned for any non-success response from the server.
// It is the only failure kind surfaced to the user as an error panel.
type TransportError struct {
	Body     string
	Request  RequestInfo
	Response ResponseInfo
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Request.Method, e.Request.URL, e.Response.Status, e.Response.StatusText)
	}
	return e.Body
}

// Title summarizes the failed call the way the error panel header shows it
func (e *TransportError) Title() string {
	return fmt.Sprintf("TransportError - %s %s (%d %s)", e.Request.Method, e.Request.URL, e.Response.Status, e.Response.StatusText)
}
