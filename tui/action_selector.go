package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hsbacot/jmsctl/client"
)

type actionKind int

const (
	actionBrowse actionKind = iota
	actionPurge
	actionSend
)

type actionItem struct {
	kind  actionKind
	label string
	desc  string
}

func (i actionItem) Title() string       { return i.label }
func (i actionItem) Description() string { return i.desc }
func (i actionItem) FilterValue() string { return i.label }

type actionSelectorModel struct {
	list   list.Model
	choice actionKind
	done   bool
}

func newActionSelector(res client.Resource) actionSelectorModel {
	browseDesc := "List the pending messages"
	if res.Kind == client.ResourceTopic {
		browseDesc = "Drain the durable subscription and list its messages"
	}

	items := []list.Item{
		actionItem{kind: actionBrowse, label: "Browse", desc: browseDesc},
		actionItem{kind: actionPurge, label: "Purge", desc: "Consume every pending message"},
		actionItem{kind: actionSend, label: "Send", desc: "Publish a text message"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	// Title (2) + items (2 lines each) + help (2)
	l := list.New(items, delegate, 60, 2+len(items)*2+2)
	l.Title = res.Code
	if res.Name != "" {
		l.Title += " - " + res.Name
	}
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = titleStyle

	return actionSelectorModel{list: l}
}

func (m actionSelectorModel) Update(msg tea.Msg) (actionSelectorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if item, ok := m.list.SelectedItem().(actionItem); ok {
			m.choice = item.kind
			m.done = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m actionSelectorModel) View() string {
	return m.list.View()
}
