// Package envelope defines the typed request/response envelope for
// extraction calls crossing an execution-context boundary (for example a
// browser extension talking to the host over a message channel).
//
// The envelope is transport-independent: a correlation ID pairs each
// response with its request, and delivery is bounded by an explicit
// timeout rather than by any particular channel's semantics.
package envelope

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTimeout indicates no response arrived within the deadline.
var ErrTimeout = errors.New("extraction request timed out")

// ErrDuplicateRequest indicates a correlation ID was reused.
var ErrDuplicateRequest = errors.New("duplicate correlation id")

// Request asks a page execution context for an extraction.
type Request struct {
	// ID is the correlation ID pairing the response to this request.
	ID string `json:"id"`

	// DocumentRef identifies the page/tab to extract.
	DocumentRef string `json:"documentRef"`

	// IncludeUIElements requests harvesting of page chrome regions.
	IncludeUIElements bool `json:"includeUIElements"`
}

// Metadata carries extraction provenance alongside the text.
type Metadata struct {
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	SiteName  string    `json:"siteName"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// Response is the extraction result for one request.
type Response struct {
	// ID echoes the request's correlation ID.
	ID string `json:"id"`

	// Success reports whether any text could be produced.
	Success bool `json:"success"`

	// Text is the extracted structured text when Success is true.
	Text string `json:"text,omitempty"`

	// Metadata is set when Success is true.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Error is the failure reason when Success is false.
	Error string `json:"error,omitempty"`
}

// NewRequest creates a request with a fresh correlation ID.
func NewRequest(documentRef string, includeUIElements bool) Request {
	return Request{
		ID:                uuid.New().String(),
		DocumentRef:       documentRef,
		IncludeUIElements: includeUIElements,
	}
}

// Transport delivers a request towards the page execution context.
// Responses come back asynchronously through Dispatcher.Deliver.
type Transport func(Request) error

// Dispatcher correlates asynchronous responses with in-flight requests.
type Dispatcher struct {
	mu      sync.Mutex
	pending map[string]chan Response
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		pending: make(map[string]chan Response),
	}
}

// Send dispatches the request over the transport and waits for its
// correlated response, the timeout, or context cancellation, whichever
// comes first.
func (d *Dispatcher) Send(ctx context.Context, transport Transport, req Request, timeout time.Duration) (Response, error) {
	ch := make(chan Response, 1)

	d.mu.Lock()
	if _, exists := d.pending[req.ID]; exists {
		d.mu.Unlock()
		return Response{}, ErrDuplicateRequest
	}
	d.pending[req.ID] = ch
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, req.ID)
		d.mu.Unlock()
	}()

	if err := transport(req); err != nil {
		return Response{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		return resp, nil
	case <-timer.C:
		return Response{}, ErrTimeout
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Deliver routes a response to its waiting request. Responses with no
// in-flight request (late arrivals after timeout) are dropped and false
// is returned.
func (d *Dispatcher) Deliver(resp Response) bool {
	d.mu.Lock()
	ch, ok := d.pending[resp.ID]
	d.mu.Unlock()
	if !ok {
		return false
	}
	ch <- resp
	return true
}
