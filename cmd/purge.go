package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/ui"
)

func newPurgeCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge [resource]",
		Short: "Consume every pending message of a queue or topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := a.pickResource(cmd.Context(), args)
			if err != nil {
				return err
			}

			if !force {
				confirmed, err := ui.ConfirmPurge(resource)
				if err != nil {
					return fmt.Errorf("confirmation failed: %w", err)
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			status := &ui.StatusLine{}
			h := a.handlers(nil, status, "Purging "+resource+"...")
			<-h.PurgeMessages(cmd.Context(), resource)

			fmt.Fprintln(cmd.OutOrStdout(), status.Text())
			if status.Text() == action.PurgeErrorText {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
