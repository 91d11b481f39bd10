package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadResources(false),
	)
}

// Update handles messages and state transitions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(resultColumns(msg.Width))
		m.table.SetWidth(msg.Width - 2)

		// The selector is built once resources load, with the stored size
		switch m.state {
		case stateSelectingResource, stateChoosingAction, stateComposingMessage:
			var cmd tea.Cmd
			m.resourceSelector, cmd = m.resourceSelector.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resourcesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.err = nil
		m.resourceSelector = newResourceSelector(msg.resources, msg.fromCache, m.width, m.height)
		m.state = stateSelectingResource
		return m, nil

	case actionDoneMsg:
		m.syncResults()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateLoadingResources:
		if msg.String() == "q" {
			return m, tea.Quit
		}

	case stateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m.refresh()
		}

	case stateSelectingResource:
		if !m.resourceSelector.filterActive {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "r":
				return m.refresh()
			}
		}

		var cmd tea.Cmd
		m.resourceSelector, cmd = m.resourceSelector.Update(msg)
		if m.resourceSelector.done {
			m.selected = m.resourceSelector.choice
			m.resourceSelector = m.resourceSelector.reset()
			if m.selected != nil {
				m.actionSelector = newActionSelector(*m.selected)
				m.state = stateChoosingAction
			}
		}
		return m, cmd

	case stateChoosingAction:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.state = stateSelectingResource
			return m, nil
		}

		var cmd tea.Cmd
		m.actionSelector, cmd = m.actionSelector.Update(msg)
		if m.actionSelector.done {
			m.actionSelector.done = false
			return m.runAction(m.actionSelector.choice)
		}
		return m, cmd

	case stateComposingMessage:
		switch msg.String() {
		case "esc":
			m.input.Blur()
			m.state = stateChoosingAction
			return m, nil
		case "enter":
			message := m.input.Value()
			m.input.Reset()
			m.input.Blur()
			m.state = stateChoosingAction
			done := m.handlers.SendMessage(m.ctx, m.selected.Code, message)
			return m, waitFor(done, actionSend)
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) runAction(kind actionKind) (tea.Model, tea.Cmd) {
	code := m.selected.Code

	switch kind {
	case actionBrowse:
		done := m.handlers.BrowseForResults(m.ctx, code)
		m.syncResults()
		return m, waitFor(done, actionBrowse)

	case actionPurge:
		done := m.handlers.PurgeMessages(m.ctx, code)
		return m, waitFor(done, actionPurge)

	case actionSend:
		m.state = stateComposingMessage
		cmd := m.input.Focus()
		return m, cmd
	}

	return m, nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.state = stateLoadingResources
	m.err = nil
	return m, m.loadResources(true)
}

// syncResults copies the results region into the table
func (m *Model) syncResults() {
	regionRows := m.results.Rows()
	rows := make([]table.Row, len(regionRows))
	for i, r := range regionRows {
		rows[i] = table.Row{r.Key, r.Value}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Command functions (run async)

func (m Model) loadResources(refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh && m.cache != nil {
			if err := m.cache.InvalidateCatalog(m.client.BaseURL()); err != nil {
				m.logger.Warn("Failed to invalidate catalog", "error", err)
			}
		}

		resources, fromCache, err := m.cache.Resources(m.ctx, m.client, m.ttl)
		return resourcesLoadedMsg{
			resources: resources,
			fromCache: fromCache,
			err:       err,
		}
	}
}

// waitFor turns a handler's done channel into an actionDoneMsg
func waitFor(done <-chan struct{}, kind actionKind) tea.Cmd {
	return func() tea.Msg {
		<-done
		return actionDoneMsg{action: kind}
	}
}
