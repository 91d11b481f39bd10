package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/cache"
	"github.com/hsbacot/jmsctl/client"
	"github.com/hsbacot/jmsctl/ui"
)

type state int

const (
	stateLoadingResources state = iota
	stateSelectingResource
	stateChoosingAction
	stateComposingMessage
	stateError
)

// API is the backend surface the TUI needs
type API interface {
	action.API
	cache.ResourceLister
}

// Options contains configuration for the Model
type Options struct {
	Client API
	Cache  *cache.Cache
	Logger *log.Logger
	// TTL bounds the age of a cached resource catalog
	TTL time.Duration
}

// Model is the Bubble Tea model for jmsctl
type Model struct {
	ctx context.Context

	// State
	state state
	err   error

	// Data
	selected *client.Resource

	// UI Components
	spinner          spinner.Model
	resourceSelector resourceSelectorModel
	actionSelector   actionSelectorModel
	input            textinput.Model
	table            table.Model
	width            int
	height           int

	// Regions shared with the handler goroutines
	busy    *busyIndicator
	results *ui.TableRegion
	status  *ui.StatusLine

	// Services
	handlers *action.Handlers
	client   API
	cache    *cache.Cache
	ttl      time.Duration
	logger   *log.Logger
}

// NewModel creates a new Bubble Tea model
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "message text"
	ti.Prompt = "> "
	ti.CharLimit = 0

	t := table.New(
		table.WithColumns(resultColumns(80)),
		table.WithHeight(10),
	)

	m := Model{
		ctx:     ctx,
		state:   stateLoadingResources,
		spinner: s,
		input:   ti,
		table:   t,
		width:   80,
		height:  24,
		busy:    &busyIndicator{},
		results: &ui.TableRegion{},
		status:  &ui.StatusLine{},
		client:  opts.Client,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		logger:  opts.Logger,
	}

	busy := m.busy
	m.handlers = action.New(action.Options{
		API:          opts.Client,
		NewIndicator: func() action.Indicator { return busy },
		Results:      m.results,
		Status:       m.status,
		Logger:       opts.Logger,
		OnBrowse:     m.saveSnapshot,
		OnPurge:      m.dropSnapshots,
	})

	return m
}

// Run starts the interactive program and blocks until the user quits
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil && m.state == stateError {
		return m.err
	}
	return nil
}

// Err returns the error if one occurred
func (m Model) Err() error {
	return m.err
}

func (m Model) saveSnapshot(listing *client.Listing) {
	if m.cache == nil {
		return
	}
	if err := m.cache.SaveSnapshot(m.client.BaseURL(), listing); err != nil {
		m.logger.Warn("Failed to cache snapshot", "resource", listing.Resource, "error", err)
	}
}

func (m Model) dropSnapshots(resource string) {
	if m.cache == nil {
		return
	}
	if _, err := m.cache.RemoveSnapshots(resource); err != nil {
		m.logger.Warn("Failed to drop stale snapshots", "resource", resource, "error", err)
	}
}

func resultColumns(width int) []table.Column {
	msgWidth := width - 14
	if msgWidth < 20 {
		msgWidth = 20
	}
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "Message", Width: msgWidth},
	}
}
