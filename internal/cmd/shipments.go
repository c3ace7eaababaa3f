package cmd

import (
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/spf13/cobra"
)

// CreateShipmentsCommand returns the command printing an account's merged shipment list.
func (f CommandFactory) CreateShipmentsCommand() *cobra.Command {
	var creds domain.Credentials

	c := &cobra.Command{
		Use:   "shipments",
		Short: "List an account's shipments as JSON",
		Long:  `Log into the forwarding portal and print every in-transit, expected and warehouse shipment, with customs status for parcels in transit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.Validate(); err != nil {
				return err
			}
			return f.withServices(cmd.Context(), func(s *Services) error {
				records, err := s.Shipments.GetShipments(cmd.Context(), creds)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), records)
			})
		},
	}

	c.Flags().StringVar(&creds.Email, "email", "", "portal account email")
	c.Flags().StringVar(&creds.Password, "password", "", "portal account password")
	return c
}
