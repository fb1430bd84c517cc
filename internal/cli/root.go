// Package cli implements the dealerdash command line client. It talks
// directly to the dealer REST API with the same client the web dashboard
// uses.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *api.Client
)

// defaultServer returns the default dealer API URL, checking the
// DEALERDASH_API env var first.
func defaultServer() string {
	if s := os.Getenv("DEALERDASH_API"); s != "" {
		return s
	}
	return "http://localhost:5000/api"
}

// NewRootCmd creates the root cobra command for the dealerdash CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dealerdash",
		Short: "DealerDash dealership admin from the terminal",
		Long:  "DealerDash lists and inspects the dealership's vehicles, enquiries and sales via the dealer REST API.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = api.NewClient(flagServer, api.TokenFunc(func(context.Context) (string, error) {
				return LoadToken(), nil
			}), logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "Dealer API URL (or DEALERDASH_API env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newVehiclesCmd(),
		newMakesCmd(),
		newEnquiriesCmd(),
		newSalesCmd(),
		newSummaryCmd(),
		newHealthCmd(),
	)

	return root
}
