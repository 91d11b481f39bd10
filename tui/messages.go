package tui

import (
	"github.com/hsbacot/jmsctl/client"
)

// Message types for Bubble Tea state transitions

type resourcesLoadedMsg struct {
	resources []client.Resource
	fromCache bool
	err       error
}

type actionDoneMsg struct {
	action actionKind
}
