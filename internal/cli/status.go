package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check dealer API reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Health(cmd.Context()); err != nil {
				return fmt.Errorf("dealer API unhealthy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dealer API is healthy.")
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the dealership analytics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.Summary(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch summary: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vehicles:  %d\n", s.VehicleCount)
			fmt.Fprintf(out, "Enquiries: %d\n", s.EnquiryCount)
			fmt.Fprintf(out, "Sales:     %d (%.2f)\n", s.SaleCount, s.SalesTotal)
			fmt.Fprintf(out, "Makes:     %d\n", s.MakeCount)
			if len(s.EnquiriesByStatus) > 0 {
				fmt.Fprintln(out, "\nEnquiries by status:")
				for status, n := range s.EnquiriesByStatus {
					fmt.Fprintf(out, "  %-10s %d\n", status, n)
				}
			}
			return nil
		},
	}
}
