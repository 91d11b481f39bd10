package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newResourcesCmd(a *app) *cobra.Command {
	var jsonOutput, refresh bool

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the queues and topics configured on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh && a.cache != nil {
				if err := a.cache.InvalidateCatalog(a.client.BaseURL()); err != nil {
					a.logger.Warn("Failed to invalidate catalog", "error", err)
				}
			}

			resources, err := a.resources(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, resources)
			}

			if len(resources) == 0 {
				fmt.Fprintln(out, "No resources configured")
				return nil
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("CODE", "NAME", "KIND")
			for _, r := range resources {
				tbl.Row(r.Code, r.Name, string(r.Kind))
			}
			fmt.Fprintln(out, tbl.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached catalog")
	return cmd
}
