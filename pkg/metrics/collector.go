package metrics

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

const httpRequestTimeout = 10 * time.Second

// HTTPClient is the subset of *http.Client used to deliver envelopes.
// It exists so tests can substitute a capturing transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Collector accumulates events and submits them in one batched request.
//
// The buffer is append-only; Submit never clears it, so submission order
// always equals add order. Collector methods are not safe for concurrent
// use — do not rely on thread safety here.
type Collector struct {
	logger     *metricsLogger
	httpClient HTTPClient
	endpoint   string
	clock      quartz.Clock

	// session is generated once per collector and reused for every
	// envelope it sends, standing in for a persistent cookie.
	session string
	events  []*Event
}

// Option configures a Collector.
type Option func(*Collector)

// WithHTTPClient replaces the HTTP client used for submission.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Collector) { c.httpClient = client }
}

// WithClock replaces the wall clock used for request_time_ms.
func WithClock(clock quartz.Clock) Option {
	return func(c *Collector) { c.clock = clock }
}

// WithEndpoint replaces the collection endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Collector) { c.endpoint = endpoint }
}

// WithLogger replaces the logger used for submission diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) { c.logger = newMetricsLogger(logger) }
}

// NewCollector returns an empty collector with a fresh session identifier.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		logger:     newMetricsLogger(slog.Default()),
		httpClient: &http.Client{Timeout: httpRequestTimeout},
		endpoint:   clearcutEndpoint,
		clock:      quartz.NewReal(),
		session:    newSessionID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newSessionID returns 128 random bits as 32 hex characters.
func newSessionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Add constructs an event from the given name and attributes and appends it
// to the buffer. It performs no I/O and cannot fail.
func (c *Collector) Add(projectNumber int64, name string, attributes map[string]any) {
	c.events = append(c.events, NewEvent(projectNumber, name, attributes))
}

// Envelope wire types. Fields are declared in lexicographic tag order so the
// encoded keys come out sorted.

type clientInfo struct {
	ClientType string `json:"client_type"`
}

type logEvent struct {
	SourceExtensionJSON string `json:"source_extension_json"`
}

type envelope struct {
	ClientInfo     clientInfo `json:"client_info"`
	LogEvent       []logEvent `json:"log_event"`
	LogSourceName  string     `json:"log_source_name"`
	RequestTimeMS  int64      `json:"request_time_ms"`
	ZwiebackCookie string     `json:"zwieback_cookie"`
}

func (c *Collector) buildEnvelope() (*envelope, error) {
	logEvents := make([]logEvent, 0, len(c.events))
	for _, e := range c.events {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode event %q: %w", e.name, err)
		}
		logEvents = append(logEvents, logEvent{SourceExtensionJSON: string(data)})
	}
	return &envelope{
		ClientInfo:     clientInfo{ClientType: clientType},
		LogEvent:       logEvents,
		LogSourceName:  logSourceName,
		RequestTimeMS:  c.clock.Now().UnixMilli(),
		ZwiebackCookie: c.session,
	}, nil
}

// Submit serializes every buffered event into one envelope and issues a
// single POST to the collection endpoint. The request carries no custom
// headers and times out after ten seconds. A non-2xx response is an error.
// The buffer is left untouched whether or not delivery succeeds.
func (c *Collector) Submit(ctx context.Context) error {
	env, err := c.buildEnvelope()
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, httpRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug("Submitting usage metrics",
		"endpoint", c.endpoint,
		"events", len(c.events),
		"payload_size", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post metrics: unexpected status %s", resp.Status)
	}
	return nil
}

// reset clears the buffer. Test hook only; production code never clears it.
func (c *Collector) reset() {
	c.events = c.events[:0]
}
