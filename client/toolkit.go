package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/buger/jsonparser"
)

const (
	// DefaultBaseURL is where a locally started toolkit backend listens
	DefaultBaseURL = "http://localhost:8080"

	resourcesPath = "/resources/get"
	browsePath    = "/browse/list"
	purgePath     = "/purge/messages"
	sendPath      = "/send/message"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client is an HTTP client for the JMS toolkit backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall timeout of every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new toolkit API client for the given base URL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID attaches an id that is sent as the X-Request-ID header
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached with WithRequestID, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ListResources fetches the queues and topics configured on the backend, sorted by code
func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	const op = "resources"

	body, err := c.get(ctx, op, resourcesPath, nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeStringObject(op, body)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(entries))
	for _, e := range entries {
		resources = append(resources, Resource{
			Code: e.Key,
			Name: e.Value,
			Kind: kindFromCode(e.Key),
		})
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Code < resources[j].Code
	})

	return resources, nil
}

// Browse lists the messages currently held by a resource
func (c *Client) Browse(ctx context.Context, resource string) (*Listing, error) {
	const op = "browse"

	body, err := c.get(ctx, op, browsePath, url.Values{"resource": {resource}})
	if err != nil {
		return nil, err
	}

	entries, err := decodeStringObject(op, body)
	if err != nil {
		return nil, err
	}

	return &Listing{Resource: resource, Entries: entries}, nil
}

// Purge consumes every pending message of a resource
func (c *Client) Purge(ctx context.Context, resource string) error {
	const op = "purge"

	body, err := c.get(ctx, op, purgePath, url.Values{"resource": {resource}})
	if err != nil {
		return err
	}
	return decodeAck(op, body)
}

// Send publishes a text message to a resource
func (c *Client) Send(ctx context.Context, resource, message string) error {
	const op = "send"

	params := url.Values{
		"resource": {resource},
		"message":  {message},
	}
	body, err := c.get(ctx, op, sendPath, params)
	if err != nil {
		return err
	}
	return decodeAck(op, body)
}

// get issues a GET with query parameters and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(KindTransport, op, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindTransport, op, err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Kind:   KindStatus,
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, op, fmt.Errorf("failed to read response: %w", err))
	}

	return body, nil
}

// decodeStringObject decodes a JSON object of string values, keeping payload order
func decodeStringObject(op string, body []byte) ([]Entry, error) {
	value, dataType, _, err := jsonparser.Get(body)
	if err != nil {
		return nil, newError(KindSchema, op, fmt.Errorf("invalid JSON: %w", err))
	}
	if dataType != jsonparser.Object {
		return nil, newError(KindSchema, op, fmt.Errorf("expected object, got %s", dataType))
	}

	entries := make([]Entry, 0)
	err = jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
		// ObjectEach hands over keys already unescaped
		k := string(key)
		if vt != jsonparser.String {
			return fmt.Errorf("value of %q is %s, expected string", k, vt)
		}
		v, err := jsonparser.ParseString(val)
		if err != nil {
			return fmt.Errorf("bad value of %q: %w", k, err)
		}
		entries = append(entries, Entry{Key: k, Value: v})
		return nil
	})
	if err != nil {
		return nil, newError(KindSchema, op, err)
	}

	return entries, nil
}

// decodeAck decodes the boolean acknowledgement returned by purge and send
func decodeAck(op string, body []byte) error {
	value, dataType, _, err := jsonparser.Get(body)
	if err != nil {
		return newError(KindSchema, op, fmt.Errorf("invalid JSON: %w", err))
	}
	if dataType != jsonparser.Boolean {
		return newError(KindSchema, op, fmt.Errorf("expected boolean, got %s", dataType))
	}

	ok, err := jsonparser.ParseBoolean(value)
	if err != nil {
		return newError(KindSchema, op, err)
	}
	if !ok {
		return newError(KindRejected, op, fmt.Errorf("backend answered false"))
	}
	return nil
}
