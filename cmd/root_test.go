package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/cache"
	"github.com/hsbacot/jmsctl/client"
	"github.com/hsbacot/jmsctl/config"
	"github.com/hsbacot/jmsctl/internal/backendtest"
)

type harness struct {
	t       *testing.T
	backend *backendtest.Backend
	server  string
}

func setup(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.ServerEnv, "")

	backend := backendtest.New()
	srv := backend.Start(t)
	return &harness{t: t, backend: backend, server: srv.URL}
}

// run executes jmsctl against the fake backend with stdin
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--server", h.server}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResourcesJSON(t *testing.T) {
	h := setup(t)

	out, err := h.run("", "resources", "--json")
	require.NoError(t, err)

	var resources []client.Resource
	require.NoError(t, json.Unmarshal([]byte(out), &resources))
	require.Len(t, resources, 5)
	assert.Equal(t, "QUEUE_001", resources[0].Code)
	assert.Equal(t, client.ResourceTopic, resources[4].Kind)

	// The catalog is served from cache on the next call
	_, err = h.run("", "resources")
	require.NoError(t, err)
	count := 0
	for _, r := range h.backend.Requests() {
		if r.Path == "/resources/get" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err = h.run("", "resources", "--refresh")
	require.NoError(t, err)
	count = 0
	for _, r := range h.backend.Requests() {
		if r.Path == "/resources/get" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestResourcesTable(t *testing.T) {
	h := setup(t)

	out, err := h.run("", "--no-cache", "resources")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "TOPIC 003 in ActiveMQ")
}

func TestBrowse(t *testing.T) {
	h := setup(t)
	h.backend.Seed("QUEUE_001", "hello", "world")

	out, err := h.run("", "browse", "QUEUE_001")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")

	out, err = h.run("", "browse", "--from-cache", "QUEUE_001")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot taken")
	assert.Contains(t, out, "world")

	_, err = h.run("", "browse", "--from-cache", "QUEUE_002")
	assert.Error(t, err)
}

func TestBrowseError(t *testing.T) {
	h := setup(t)
	h.backend.Override("/browse/list", http.StatusInternalServerError, "down")

	out, err := h.run("", "browse", "QUEUE_001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReported))
	assert.Contains(t, out, action.ErrorText)
}

func TestPurge(t *testing.T) {
	h := setup(t)
	h.backend.Seed("QUEUE_001", "a", "b")

	_, err := h.run("", "browse", "QUEUE_001")
	require.NoError(t, err)

	out, err := h.run("", "purge", "QUEUE_001", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, action.PurgedText)
	assert.Empty(t, h.backend.Messages("QUEUE_001"))

	// Purge drops the now stale snapshot
	_, err = h.run("", "browse", "--from-cache", "QUEUE_001")
	assert.Error(t, err)
}

func TestPurgeRejected(t *testing.T) {
	h := setup(t)

	out, err := h.run("", "purge", "NOPE", "-f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReported))
	assert.Contains(t, out, action.PurgeErrorText)
}

func TestSend(t *testing.T) {
	h := setup(t)

	out, err := h.run("", "send", "TOPIC_001", "hello & goodbye")
	require.NoError(t, err)
	assert.Contains(t, out, action.SentText)
	assert.Equal(t, []string{"hello & goodbye"}, h.backend.Messages("TOPIC_001"))

	out, err = h.run("", "send", "NOPE", "x")
	require.Error(t, err)
	assert.Contains(t, out, action.SendErrorText)
}

func TestInvalidServer(t *testing.T) {
	h := setup(t)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--server", "ftp://example.com", "resources"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")

	// An explicit config file must exist
	_, err = h.run("", "--config", "/nonexistent/config.yaml", "resources")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	h := setup(t)
	h.backend.Seed("QUEUE_001", "a")

	_, err := h.run("", "resources")
	require.NoError(t, err)
	_, err = h.run("", "browse", "QUEUE_001")
	require.NoError(t, err)

	out, err := h.run("", "cache", "stats", "--json")
	require.NoError(t, err)
	var stats cache.CacheStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Catalogs)
	assert.Equal(t, 1, stats.Snapshots)

	out, err = h.run("", "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "QUEUE_001")

	out, err = h.run("n\n", "cache", "remove", "QUEUE_001")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = h.run("y\n", "cache", "remove", "QUEUE_001")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 snapshots")

	_, err = h.run("", "cache", "remove", "QUEUE_001", "-f")
	assert.Error(t, err)

	_, err = h.run("", "cache", "prune")
	assert.Error(t, err)

	out, err = h.run("", "cache", "prune", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries to prune")

	out, err = h.run("", "cache", "clear", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")

	out, err = h.run("", "cache", "clear", "-f")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 entries")

	out, err = h.run("", "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")
}

func TestConfirmAction(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := confirmAction(strings.NewReader(tt.input), &out, "Sure?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Sure? (y/N): ", out.String())
	}
}
