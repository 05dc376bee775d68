package sonar

import "fmt"

// TransportError is returned when the server answers with a non-success
// HTTP status. It carries the status code and the raw response body so the
// caller can surface both verbatim.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("issue search failed with status %d: %s", e.StatusCode, e.Body)
}

// ProtocolError is returned when a response body is present but cannot be
// interpreted as the expected search envelope, or when the envelope's
// bookkeeping contradicts the issues actually delivered.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// AggregateFetchError wraps the first failure observed among the concurrent
// page fetches of a fetch-all operation. No partial result accompanies it.
type AggregateFetchError struct {
	Page int
	Err  error
}

func (e *AggregateFetchError) Error() string {
	return fmt.Sprintf("fetching page %d failed: %v", e.Page, e.Err)
}

func (e *AggregateFetchError) Unwrap() error { return e.Err }
