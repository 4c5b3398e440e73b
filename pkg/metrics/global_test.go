package metrics

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUsesSharedCollector(t *testing.T) {
	c := Shared()
	c.reset()

	Add(123, "shared-event", map[string]any{"attribute": 1})

	assert.Same(t, c, Shared())
	require.Len(t, c.events, 1)
	assert.Equal(t, "shared-event", c.events[0].name)
}

func TestShutdownRunsOnce(t *testing.T) {
	transport := newMockTransport()
	c := Shared()
	c.reset()
	c.httpClient = transport.client()
	c.clock = quartz.NewMock(t)

	Add(123, "shutdown-event", nil)

	Shutdown()
	Shutdown()

	assert.Len(t, transport.requests, 1)
}

func TestFlushSwallowsSubmitError(t *testing.T) {
	var buf bytes.Buffer
	transport := newMockTransport()
	transport.status = http.StatusServiceUnavailable

	c := NewCollector(
		WithHTTPClient(transport.client()),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	c.Add(123, "failing", nil)

	flush(c)

	assert.Len(t, transport.requests, 1)
	assert.Contains(t, buf.String(), "Failed to submit usage metrics")
}

type panicClient struct{}

func (panicClient) Do(*http.Request) (*http.Response, error) {
	panic("transport exploded")
}

func TestFlushSwallowsPanic(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(
		WithHTTPClient(panicClient{}),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	c.Add(123, "panicking", nil)

	flush(c)

	assert.Contains(t, buf.String(), "Panic during metrics submission")
}

func TestContextCollector(t *testing.T) {
	c := NewCollector()
	ctx := WithCollector(context.Background(), c)

	assert.Same(t, c, FromContext(ctx))
	assert.Same(t, Shared(), FromContext(context.Background()))
}
