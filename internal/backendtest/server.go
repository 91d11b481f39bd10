// Package backendtest provides an in-memory stand-in for the JMS toolkit
// backend, routed with gorilla/mux and served through httptest.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Request is a call recorded by the fake backend
type Request struct {
	Path      string
	Query     url.Values
	RequestID string
}

// Override replaces the normal answer of one endpoint
type Override struct {
	Status int
	Body   string
}

// Backend mimics the toolkit endpoints over an in-memory set of resources.
// Queues are browsed without consuming; browsing a topic drains its
// subscriber, as a durable subscription receive does.
type Backend struct {
	mu        sync.Mutex
	order     []string
	names     map[string]string
	messages  map[string][]string
	overrides map[string]Override
	requests  []Request
}

// New creates a backend preloaded with two queues and three topics
func New() *Backend {
	b := &Backend{
		names:     make(map[string]string),
		messages:  make(map[string][]string),
		overrides: make(map[string]Override),
	}
	b.AddResource("QUEUE_001", "QUEUE 001 in ActiveMQ")
	b.AddResource("QUEUE_002", "QUEUE 002 in ActiveMQ")
	b.AddResource("TOPIC_001", "TOPIC 001 in ActiveMQ")
	b.AddResource("TOPIC_002", "TOPIC 002 in ActiveMQ")
	b.AddResource("TOPIC_003", "TOPIC 003 in ActiveMQ")
	return b
}

// AddResource registers a resource code and display name
func (b *Backend) AddResource(code, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.names[code]; !ok {
		b.order = append(b.order, code)
	}
	b.names[code] = name
}

// Seed appends messages to a resource
func (b *Backend) Seed(code string, msgs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[code] = append(b.messages[code], msgs...)
}

// Messages returns a copy of the pending messages of a resource
func (b *Backend) Messages(code string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages[code]...)
}

// Override makes the endpoint at path answer with a fixed status and body
func (b *Backend) Override(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[path] = Override{Status: status, Body: body}
}

// Requests returns the calls received so far
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Handler returns the routed HTTP handler
func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/resources/get", b.handleResources).Methods(http.MethodGet)
	r.HandleFunc("/browse/list", b.handleBrowse).Methods(http.MethodGet).Queries("resource", "{resource}")
	r.HandleFunc("/purge/messages", b.handlePurge).Methods(http.MethodGet).Queries("resource", "{resource}")
	r.HandleFunc("/send/message", b.handleSend).Methods(http.MethodGet).Queries("resource", "{resource}", "message", "{message}")
	return r
}

// Start serves the backend until the test ends
func (b *Backend) Start(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		o, overridden := b.overrides[r.URL.Path]
		b.mu.Unlock()

		if overridden {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.Status)
			_, _ = w.Write([]byte(o.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleResources(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	pairs := make([][2]string, 0, len(b.order))
	for _, code := range b.order {
		pairs = append(pairs, [2]string{code, b.names[code]})
	}
	b.mu.Unlock()

	writeObject(w, pairs)
}

func (b *Backend) handleBrowse(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["resource"]

	b.mu.Lock()
	msgs := b.messages[code]
	if strings.HasPrefix(code, "TOPIC") {
		delete(b.messages, code)
	}
	b.mu.Unlock()

	pairs := make([][2]string, 0, len(msgs))
	for i, m := range msgs {
		pairs = append(pairs, [2]string{strconv.Itoa(i + 1), m})
	}
	writeObject(w, pairs)
}

func (b *Backend) handlePurge(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["resource"]

	b.mu.Lock()
	_, known := b.names[code]
	if known {
		delete(b.messages, code)
	}
	b.mu.Unlock()

	writeJSON(w, known)
}

func (b *Backend) handleSend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := vars["resource"]

	b.mu.Lock()
	_, known := b.names[code]
	if known {
		b.messages[code] = append(b.messages[code], r.URL.Query().Get("message"))
	}
	b.mu.Unlock()

	writeJSON(w, known)
}

// writeObject writes a JSON object keeping the pair order
func writeObject(w http.ResponseWriter, pairs [][2]string) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, _ := json.Marshal(p[0])
		v, _ := json.Marshal(p[1])
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(sb.String()))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
