package cmd

import (
	"github.com/spf13/cobra"
)

// CreateLookupCommand returns the command printing customs status for tracking codes.
func (f CommandFactory) CreateLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup CODE...",
		Short: "Look up customs status for tracking codes",
		Long:  `Query the customs portal for each tracking code and print one report per code, in argument order.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withServices(cmd.Context(), func(s *Services) error {
				return printJSON(cmd.OutOrStdout(), s.Lookups.LookupAll(cmd.Context(), args))
			})
		},
	}
}
