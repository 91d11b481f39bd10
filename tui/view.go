package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hsbacot/jmsctl/action"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginLeft(2)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(2)
	tableStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// View renders the UI based on the current state
func (m Model) View() string {
	switch m.state {
	case stateLoadingResources:
		return fmt.Sprintf("\n %s Loading resources from %s...\n",
			spinnerStyle.Render(m.spinner.View()), m.client.BaseURL())

	case stateError:
		return errorStyle.Render(fmt.Sprintf("\n ✗ Error: %v\n", m.err)) +
			"\n" + dimStyle.Render("r retry  •  q quit") + "\n"

	case stateSelectingResource:
		return m.resourceSelector.View()

	case stateChoosingAction, stateComposingMessage:
		return m.workspaceView()

	default:
		return ""
	}
}

func (m Model) workspaceView() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.state == stateComposingMessage {
		b.WriteString(titleStyle.Render("Send to " + m.selected.Code))
		b.WriteString("\n\n  ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter send  •  esc cancel"))
	} else {
		b.WriteString(m.actionSelector.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter run  •  esc back  •  q quit"))
	}
	b.WriteString("\n\n")

	if m.busy.Active() {
		b.WriteString(fmt.Sprintf(" %s Working...\n", spinnerStyle.Render(m.spinner.View())))
	} else {
		b.WriteString("\n")
	}

	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	if text := m.status.Text(); text != "" {
		b.WriteString(" " + statusStyle(text).Render(text) + "\n")
	}

	return b.String()
}

func statusStyle(text string) lipgloss.Style {
	switch text {
	case action.SentText, action.PurgedText:
		return successStyle
	case action.SendErrorText, action.PurgeErrorText:
		return errorStyle
	default:
		return infoStyle
	}
}
