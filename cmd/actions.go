// -- cmd/actions.go --
package cmd

import (
	"fmt"
	"text/tabwriter"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/wheelhouse-ai/wheelhouse/internal/controller"
	"github.com/wheelhouse-ai/wheelhouse/internal/observability"
)

// newActionsCmd creates the `actions` command, which prints the action
// listing an agent would receive, after config-level exclusions.
func newActionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Lists the actions the engine can dispatch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}

			registry := controller.NewDefaultRegistry(observability.GetLogger())
			registry.Exclude(cfg.Controller.ExcludedActions...)
			listings := registry.Describe()

			if asJSON {
				out, err := json.MarshalIndent(listings, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding action listing: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACTION\tDESCRIPTION")
			for _, l := range listings {
				fmt.Fprintf(w, "%s\t%s\n", l.Name, l.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}
