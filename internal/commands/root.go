package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the rentd command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rentd",
		Short: "Daily rent reconciliation service",
		Long: `rentd reconciles expected rent payments against landlords' bank feeds.

It runs a scheduled daily check, records one immutable ledger entry per
property per due date, and notifies landlords (and optionally tenants)
about received, partial and missed payments.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReconcileCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
