package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/cache"
	"github.com/hsbacot/jmsctl/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var fromCache bool

	cmd := &cobra.Command{
		Use:   "browse [resource]",
		Short: "List the pending messages of a queue or topic",
		Long: `Browse lists the messages pending on a resource. Browsing a topic drains
its durable subscription, so the same messages are not listed twice.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromCache {
				if len(args) == 0 {
					return errors.New("--from-cache needs a resource")
				}
				return a.showSnapshot(cmd, args[0])
			}

			resource, err := a.pickResource(cmd.Context(), args)
			if err != nil {
				return err
			}

			results := &ui.TableRegion{}
			h := a.handlers(results, nil, "Browsing "+resource+"...")
			<-h.BrowseForResults(cmd.Context(), resource)

			fmt.Fprintln(cmd.OutOrStdout(), results.String())
			if isErrorRows(results.Rows()) {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromCache, "from-cache", false, "show the last browsed snapshot instead of asking the backend")
	return cmd
}

func (a *app) showSnapshot(cmd *cobra.Command, resource string) error {
	c, err := a.openCache()
	if err != nil {
		return err
	}

	snap, err := c.GetSnapshot(a.client.BaseURL(), resource)
	if errors.Is(err, cache.ErrMiss) {
		return fmt.Errorf("no snapshot of %s for %s", resource, a.client.BaseURL())
	}
	if err != nil {
		return err
	}

	rows := make([]action.Row, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, action.Row{Key: action.Sanitize(e.Key), Value: action.Sanitize(e.Value)})
	}
	results := &ui.TableRegion{}
	results.Render(rows)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Snapshot taken %s (%s)\n", formatDate(snap.TakenAt), formatAge(snap.TakenAt))
	fmt.Fprintln(out, results.String())
	return nil
}

func isErrorRows(rows []action.Row) bool {
	return len(rows) == 1 && rows[0].Key == action.ErrorText
}
