package biomart

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every lookup failure, so callers can use
// errors.Is(err, ErrNotFound) to tell "the mart doesn't have it" apart
// from "the mart couldn't be reached".
var ErrNotFound = errors.New("not found")

// NotFoundError reports a lookup of a name the server does not advertise.
type NotFoundError struct {
	Kind string // "mart", "dataset", "attribute" or "filter"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s: %s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ResponseError is a non-2xx reply from the mart service.
type ResponseError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// ParseError reports a response body that does not match the expected
// wire format.
type ParseError struct {
	What string // which response was being decoded
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// QueryError is an error page the mart service returns with a 200 status
// in place of query results.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "mart query failed: " + e.Message
}
