package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/hsbacot/jmsctl/client"
)

// SelectResource presents an interactive selection menu for choosing a queue or topic
func SelectResource(resources []client.Resource) (*client.Resource, error) {
	if len(resources) == 0 {
		return nil, errors.New("no resources to select from")
	}

	var selected string
	options := make([]huh.Option[string], len(resources))

	// Create options from resources
	for i, res := range resources {
		label := res.Code
		if res.Name != "" {
			label = fmt.Sprintf("%s - %s", res.Code, res.Name)
		}
		label = fmt.Sprintf("%s [%s]", label, res.Kind)

		options[i] = huh.NewOption(label, res.Code)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a resource:").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	for i := range resources {
		if resources[i].Code == selected {
			return &resources[i], nil
		}
	}

	return nil, errors.New("selection not found")
}

// ConfirmPurge asks before every pending message of resource is consumed
func ConfirmPurge(resource string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Purge all messages from %s?", resource)).
				Description("Pending messages are consumed and cannot be recovered.").
				Affirmative("Purge").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// ComposeMessage prompts for the text of a message to send to resource
func ComposeMessage(resource string) (string, error) {
	var message string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Message for %s", resource)).
				Value(&message),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return message, nil
}
