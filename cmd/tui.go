package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), tui.Options{
				Client: a.client,
				Cache:  a.cache,
				Logger: a.logger,
				TTL:    a.cfg.ResourcesTTL(),
			})
		},
	}
}
