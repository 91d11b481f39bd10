// Package action implements the UI actions of jmsctl. Each handler opens a
// loading indicator, issues one request to the toolkit backend and, once the
// request completes, reconciles one UI region with the outcome before closing
// the indicator.
//
// Handlers never block the caller and never report errors to it. The
// returned channel is closed after the completion ran, for callers that want
// to wait. Nothing serializes concurrent invocations: whichever completes
// last owns the region.
package action

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hsbacot/jmsctl/client"
)

// API is the part of the toolkit client the handlers use
type API interface {
	Browse(ctx context.Context, resource string) (*client.Listing, error)
	Purge(ctx context.Context, resource string) error
	Send(ctx context.Context, resource, message string) error
}

// Options contains the collaborators of Handlers
type Options struct {
	API          API
	NewIndicator IndicatorFactory
	Results      ResultsRegion
	Status       StatusRegion
	Logger       *log.Logger

	// OnBrowse, if set, receives every successfully browsed listing
	OnBrowse func(*client.Listing)
	// OnPurge, if set, receives every successfully purged resource
	OnPurge func(resource string)
}

// Handlers binds the browse, purge and send actions to their regions
type Handlers struct {
	api          API
	newIndicator IndicatorFactory
	results      ResultsRegion
	status       StatusRegion
	logger       *log.Logger
	onBrowse     func(*client.Listing)
	onPurge      func(string)
}

// New creates the handlers. Missing regions discard their writes and a
// missing indicator factory shows nothing.
func New(opts Options) *Handlers {
	h := &Handlers{
		api:          opts.API,
		newIndicator: opts.NewIndicator,
		results:      opts.Results,
		status:       opts.Status,
		logger:       opts.Logger,
		onBrowse:     opts.OnBrowse,
		onPurge:      opts.OnPurge,
	}

	if h.newIndicator == nil {
		h.newIndicator = NopIndicator
	}
	if h.results == nil {
		h.results = discardRegion{}
	}
	if h.status == nil {
		h.status = discardRegion{}
	}
	if h.logger == nil {
		h.logger = log.New(io.Discard)
	}

	return h
}

// BrowseForResults lists the messages of selectedValue into the results region
func (h *Handlers) BrowseForResults(ctx context.Context, selectedValue string) <-chan struct{} {
	ctx, logger := h.begin(ctx, "browse", "resource", selectedValue)

	indicator := h.newIndicator()
	indicator.Open()
	h.results.Render(loadingRows)

	return async(func() {
		defer indicator.Close()

		listing, err := h.api.Browse(ctx, selectedValue)
		if err != nil {
			logger.Error("Browse failed", "error", err)
			h.results.Render(errorRows)
			return
		}
		if listing == nil {
			listing = &client.Listing{Resource: selectedValue}
		}

		rows := make([]Row, 0, len(listing.Entries))
		for _, e := range listing.Entries {
			rows = append(rows, Row{Key: Sanitize(e.Key), Value: Sanitize(e.Value)})
		}
		h.results.Render(rows)

		if h.onBrowse != nil {
			h.onBrowse(listing)
		}
		logger.Debug("Browse completed", "messages", len(rows))
	})
}

// PurgeMessages consumes the pending messages of selectedValue and reports
// the outcome in the status region
func (h *Handlers) PurgeMessages(ctx context.Context, selectedValue string) <-chan struct{} {
	ctx, logger := h.begin(ctx, "purge", "resource", selectedValue)

	indicator := h.newIndicator()
	indicator.Open()

	return async(func() {
		defer indicator.Close()

		if err := h.api.Purge(ctx, selectedValue); err != nil {
			logger.Error("Purge failed", "error", err)
			h.status.SetText(PurgeErrorText)
			return
		}

		h.status.SetText(PurgedText)
		if h.onPurge != nil {
			h.onPurge(selectedValue)
		}
		logger.Debug("Purge completed")
	})
}

// SendMessage publishes message to resource and reports the outcome in the
// status region
func (h *Handlers) SendMessage(ctx context.Context, resource, message string) <-chan struct{} {
	ctx, logger := h.begin(ctx, "send", "resource", resource)
	logger.Debug("Sending message", "bytes", len(message))

	h.status.SetText(SendingText)
	indicator := h.newIndicator()
	indicator.Open()

	return async(func() {
		defer indicator.Close()

		if err := h.api.Send(ctx, resource, message); err != nil {
			logger.Error("Send failed", "error", err)
			h.status.SetText(SendErrorText)
			return
		}

		h.status.SetText(SentText)
		logger.Debug("Send completed")
	})
}

// begin tags the invocation with a request id shared by its logs and the
// outgoing request
func (h *Handlers) begin(ctx context.Context, op string, keyvals ...interface{}) (context.Context, *log.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}

	id := uuid.NewString()
	logger := h.logger.With(append([]interface{}{"op", op, "request_id", id}, keyvals...)...)
	logger.Debug("Action started")

	return client.WithRequestID(ctx, id), logger
}

// async runs fn on its own goroutine and closes the returned channel after it
func async(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

type discardRegion struct{}

func (discardRegion) Render([]Row)   {}
func (discardRegion) SetText(string) {}
