package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/ui"
)

func newSendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [resource] [message]",
		Short: "Send a text message to a queue or topic",
		Long: `Send publishes one text message. Missing arguments are asked for
interactively. The message is sent as typed, an empty text included.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := a.pickResource(cmd.Context(), args)
			if err != nil {
				return err
			}

			var message string
			if len(args) == 2 {
				message = args[1]
			} else {
				message, err = ui.ComposeMessage(resource)
				if err != nil {
					return fmt.Errorf("compose failed: %w", err)
				}
			}

			status := &ui.StatusLine{}
			h := a.handlers(nil, status, "Sending to "+resource+"...")
			<-h.SendMessage(cmd.Context(), resource, message)

			fmt.Fprintln(cmd.OutOrStdout(), status.Text())
			if status.Text() == action.SendErrorText {
				return errReported
			}
			return nil
		},
	}

	return cmd
}
