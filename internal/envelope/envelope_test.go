package envelope

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_FreshCorrelationIDs(t *testing.T) {
	a := NewRequest("tab-1", false)
	b := NewRequest("tab-1", false)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "tab-1", a.DocumentRef)
}

func TestDispatcher_CorrelatesResponse(t *testing.T) {
	d := NewDispatcher()

	transport := func(req Request) error {
		go d.Deliver(Response{ID: req.ID, Success: true, Text: "extracted"})
		return nil
	}

	resp, err := d.Send(context.Background(), transport, NewRequest("tab-1", false), time.Second)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "extracted", resp.Text)
}

func TestDispatcher_Timeout(t *testing.T) {
	d := NewDispatcher()

	// Transport that never answers.
	transport := func(Request) error { return nil }

	_, err := d.Send(context.Background(), transport, NewRequest("tab-1", false), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDispatcher_ContextCancellation(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	transport := func(Request) error {
		cancel()
		return nil
	}

	_, err := d.Send(ctx, transport, NewRequest("tab-1", false), time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_TransportErrorPropagates(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("channel closed")

	transport := func(Request) error { return boom }

	_, err := d.Send(context.Background(), transport, NewRequest("tab-1", false), time.Second)
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_DuplicateRequestRejected(t *testing.T) {
	d := NewDispatcher()
	req := NewRequest("tab-1", false)

	release := make(chan struct{})
	go func() {
		_, _ = d.Send(context.Background(), func(Request) error {
			close(release)
			return nil
		}, req, time.Second)
	}()
	<-release

	_, err := d.Send(context.Background(), func(Request) error { return nil }, req, time.Second)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	d.Deliver(Response{ID: req.ID})
}

func TestDispatcher_LateDeliveryDropped(t *testing.T) {
	d := NewDispatcher()
	req := NewRequest("tab-1", false)

	_, err := d.Send(context.Background(), func(Request) error { return nil }, req, time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)

	// The response arrives after the timeout removed the pending entry.
	assert.False(t, d.Deliver(Response{ID: req.ID, Success: true}))
}
