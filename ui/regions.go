package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hsbacot/jmsctl/action"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	keyStyle    = cellStyle.Foreground(lipgloss.Color("86"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TableRegion keeps browse results in memory until they are printed
type TableRegion struct {
	mu   sync.Mutex
	rows []action.Row
}

// Render replaces the held rows
func (t *TableRegion) Render(rows []action.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]action.Row(nil), rows...)
}

// Rows returns a copy of the held rows
func (t *TableRegion) Rows() []action.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]action.Row(nil), t.rows...)
}

// String renders the rows as a bordered table
func (t *TableRegion) String() string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("#", "MESSAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return cellStyle
			}
		})

	for _, r := range t.Rows() {
		tbl.Row(r.Key, r.Value)
	}
	return tbl.String()
}

// StatusLine keeps the latest status text
type StatusLine struct {
	mu   sync.Mutex
	text string
}

// SetText replaces the status text
func (s *StatusLine) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Text returns the current status text
func (s *StatusLine) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}
