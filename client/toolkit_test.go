package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsbacot/jmsctl/internal/backendtest"
)

func setupClient(t *testing.T) (*Client, *backendtest.Backend) {
	t.Helper()
	backend := backendtest.New()
	srv := backend.Start(t)
	return New(srv.URL, WithTimeout(2*time.Second)), backend
}

func TestListResources(t *testing.T) {
	c, _ := setupClient(t)

	resources, err := c.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 5)

	assert.Equal(t, Resource{Code: "QUEUE_001", Name: "QUEUE 001 in ActiveMQ", Kind: ResourceQueue}, resources[0])
	assert.Equal(t, "TOPIC_003", resources[4].Code)
	assert.Equal(t, ResourceTopic, resources[4].Kind)
}

func TestBrowse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  Kind
		expected []Entry
	}{
		{
			name:     "keeps payload order",
			body:     `{"b":"2","a":"1","10":"x"}`,
			expected: []Entry{{"b", "2"}, {"a", "1"}, {"10", "x"}},
		},
		{
			name:     "empty mapping",
			body:     `{}`,
			expected: []Entry{},
		},
		{
			name:     "escaped values",
			body:     `{"1":"line\nbreak é"}`,
			expected: []Entry{{"1", "line\nbreak é"}},
		},
		{
			name:    "array instead of object",
			body:    `["a","b"]`,
			wantErr: KindSchema,
		},
		{
			name:    "non string value",
			body:    `{"1":2}`,
			wantErr: KindSchema,
		},
		{
			name:    "not json",
			body:    ``,
			wantErr: KindSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, backend := setupClient(t)
			backend.Override("/browse/list", http.StatusOK, tt.body)

			listing, err := c.Browse(context.Background(), "QUEUE_001")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "QUEUE_001", listing.Resource)
			assert.Equal(t, tt.expected, listing.Entries)
		})
	}
}

func TestBrowseSendsResourceVerbatim(t *testing.T) {
	c, backend := setupClient(t)
	backend.Seed("QUEUE_002", "first", "second")

	ctx := WithRequestID(context.Background(), "req-1")
	listing, err := c.Browse(ctx, "QUEUE_002")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"1", "first"}, {"2", "second"}}, listing.Entries)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/browse/list", reqs[0].Path)
	assert.Equal(t, "QUEUE_002", reqs[0].Query.Get("resource"))
	assert.Equal(t, "req-1", reqs[0].RequestID)
}

func TestPurge(t *testing.T) {
	c, backend := setupClient(t)
	backend.Seed("QUEUE_001", "a", "b")

	require.NoError(t, c.Purge(context.Background(), "QUEUE_001"))
	assert.Empty(t, backend.Messages("QUEUE_001"))

	err := c.Purge(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRejected))
}

func TestSend(t *testing.T) {
	c, backend := setupClient(t)

	require.NoError(t, c.Send(context.Background(), "TOPIC_001", "hello & goodbye"))
	assert.Equal(t, []string{"hello & goodbye"}, backend.Messages("TOPIC_001"))

	err := c.Send(context.Background(), "NOPE", "hello")
	assert.True(t, IsKind(err, KindRejected))
}

func TestAckSchemaMismatch(t *testing.T) {
	c, backend := setupClient(t)
	backend.Override("/send/message", http.StatusOK, `{"ok":true}`)

	err := c.Send(context.Background(), "QUEUE_001", "x")
	assert.True(t, IsKind(err, KindSchema))
}

func TestStatusError(t *testing.T) {
	c, backend := setupClient(t)
	backend.Override("/purge/messages", http.StatusInternalServerError, "broker down")

	err := c.Purge(context.Background(), "QUEUE_001")
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindStatus, cerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, cerr.Status)
	assert.Contains(t, cerr.Error(), "broker down")
}

func TestTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTimeout(500*time.Millisecond))

	_, err := c.Browse(context.Background(), "QUEUE_001")
	assert.True(t, IsKind(err, KindTransport))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Send(ctx, "QUEUE_001", "x")
	assert.True(t, IsKind(err, KindTransport))
}

func TestNewDefaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://broker:8080", New("http://broker:8080/").BaseURL())
}
