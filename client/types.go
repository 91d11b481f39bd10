package client

import "strings"

// ResourceKind tells queues and topics apart
type ResourceKind string

const (
	ResourceQueue   ResourceKind = "queue"
	ResourceTopic   ResourceKind = "topic"
	ResourceUnknown ResourceKind = "unknown"
)

// Resource is a queue or topic configured on the backend
type Resource struct {
	Code string       `json:"code"`
	Name string       `json:"name"`
	Kind ResourceKind `json:"kind"`
}

// Entry is one browsed message, keyed by its position on the backend
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Listing is the result of browsing a resource, in payload order
type Listing struct {
	Resource string  `json:"resource"`
	Entries  []Entry `json:"entries"`
}

// kindFromCode derives the resource kind from its code, e.g. QUEUE_001 or TOPIC_002
func kindFromCode(code string) ResourceKind {
	upper := strings.ToUpper(code)
	switch {
	case strings.HasPrefix(upper, "QUEUE"):
		return ResourceQueue
	case strings.HasPrefix(upper, "TOPIC"):
		return ResourceTopic
	default:
		return ResourceUnknown
	}
}
