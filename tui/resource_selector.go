package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hsbacot/jmsctl/client"
)

type resourceItem struct {
	res client.Resource
}

func (i resourceItem) Title() string {
	return fmt.Sprintf("%s  [%s]", i.res.Code, i.res.Kind)
}

func (i resourceItem) Description() string {
	if i.res.Name == "" {
		return "-"
	}
	return i.res.Name
}

func (i resourceItem) FilterValue() string {
	return i.res.Code + " " + i.res.Name
}

type sortMode int

const (
	sortByCode sortMode = iota
	sortByKind
	sortByName
)

var sortLabels = []string{"Code", "Kind", "Name"}

type resourceSelectorModel struct {
	list         list.Model
	resources    []client.Resource
	allResources []client.Resource // Keep original for filtering
	choice       *client.Resource
	done         bool
	sortMode     sortMode
	filterActive bool
	filterInput  string
	fromCache    bool
}

func newResourceSelector(resources []client.Resource, fromCache bool, width, height int) resourceSelectorModel {
	sorted := make([]client.Resource, len(resources))
	copy(sorted, resources)
	sortResources(sorted, sortByCode)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(toItems(sorted), delegate, width, listHeight(height))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false) // We handle filtering ourselves
	l.SetShowHelp(true)
	l.Styles.Title = titleStyle

	m := resourceSelectorModel{
		list:         l,
		resources:    sorted,
		allResources: sorted,
		sortMode:     sortByCode,
		fromCache:    fromCache,
	}
	m.setTitle()
	return m
}

func (m resourceSelectorModel) Update(msg tea.Msg) (resourceSelectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filterActive {
			switch msg.String() {
			case "enter", "esc", "/":
				m.filterActive = false
			case "backspace":
				if len(m.filterInput) > 0 {
					m.filterInput = m.filterInput[:len(m.filterInput)-1]
					m = m.applyFilter()
				}
			default:
				if msg.Type == tea.KeyRunes {
					m.filterInput += string(msg.Runes)
					m = m.applyFilter()
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(resourceItem); ok {
				res := item.res
				m.choice = &res
				m.done = true
			}
			return m, nil
		case "/":
			m.filterActive = true
			return m, nil
		case "esc":
			// Clear a kept filter
			if m.filterInput != "" {
				m.filterInput = ""
				m = m.applyFilter()
			}
			return m, nil
		case "s":
			m.sortMode = (m.sortMode + 1) % sortMode(len(sortLabels))
			m = m.resort()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, listHeight(msg.Height))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m resourceSelectorModel) View() string {
	view := m.list.View()

	if m.filterActive || m.filterInput != "" {
		cursor := ""
		if m.filterActive {
			cursor = "_"
		}
		view += "\n" + titleStyle.Render(fmt.Sprintf("Filter: %s%s", m.filterInput, cursor))
	}

	view += "\n" + dimStyle.Render(fmt.Sprintf("Sort: %s ▼  •  / filter  •  s sort  •  r refresh  •  q quit", sortLabels[m.sortMode]))
	return "\n" + view
}

// reset clears the last choice so the selector can be reused
func (m resourceSelectorModel) reset() resourceSelectorModel {
	m.choice = nil
	m.done = false
	return m
}

func (m resourceSelectorModel) resort() resourceSelectorModel {
	sorted := make([]client.Resource, len(m.resources))
	copy(sorted, m.resources)
	sortResources(sorted, m.sortMode)

	m.list.SetItems(toItems(sorted))
	m.resources = sorted
	return m
}

func (m resourceSelectorModel) applyFilter() resourceSelectorModel {
	if m.filterInput == "" {
		m.resources = m.allResources
		m = m.resort()
		m.setTitle()
		return m
	}

	needle := strings.ToLower(m.filterInput)
	filtered := []client.Resource{}
	for _, res := range m.allResources {
		if strings.Contains(strings.ToLower(res.Code+" "+res.Name), needle) {
			filtered = append(filtered, res)
		}
	}

	m.resources = filtered
	m = m.resort()
	m.setTitle()
	return m
}

func (m *resourceSelectorModel) setTitle() {
	source := ""
	if m.fromCache {
		source = ", cached"
	}
	m.list.Title = fmt.Sprintf("Resources (%d%s)", len(m.resources), source)
}

// listHeight leaves room for the filter and sort lines
func listHeight(height int) int {
	if height-4 < 5 {
		return 5
	}
	return height - 4
}

func toItems(resources []client.Resource) []list.Item {
	items := make([]list.Item, len(resources))
	for i, res := range resources {
		items[i] = resourceItem{res: res}
	}
	return items
}

func sortResources(resources []client.Resource, mode sortMode) {
	switch mode {
	case sortByCode:
		sort.SliceStable(resources, func(i, j int) bool {
			return resources[i].Code < resources[j].Code
		})
	case sortByKind:
		sort.SliceStable(resources, func(i, j int) bool {
			if resources[i].Kind != resources[j].Kind {
				return resources[i].Kind < resources[j].Kind
			}
			return resources[i].Code < resources[j].Code
		})
	case sortByName:
		sort.SliceStable(resources, func(i, j int) bool {
			return strings.ToLower(resources[i].Name) < strings.ToLower(resources[j].Name)
		})
	}
}
