// Package cmd implements the ratedesk commands.
package cmd

import (
	"context"

	"github.com/grovetools/ratedesk/cli"
	"github.com/grovetools/ratedesk/pkg/profiling"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the ratedesk command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("ratedesk", "Manage creator rate cards from the terminal")
	root.Long = `ratedesk talks to the rate card API: list and edit rate cards, manage
bundled packages, publish and share them, and browse their history.`
	cli.SetVersionTemplate(root)

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(root)
	root.PersistentPreRunE = profiler.PreRun
	root.PersistentPostRunE = profiler.PostRun

	root.AddCommand(
		NewListCmd(),
		NewShowCmd(),
		NewCreateCmd(),
		NewDeleteCmd(),
		NewMetricsCmd(),
		NewPricingCmd(),
		NewTermsCmd(),
		NewPackageCmd(),
		NewPublishCmd(),
		NewShareCmd(),
		NewHistoryCmd(),
		NewRestoreCmd(),
		NewAnalyticsCmd(),
		NewPickCmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		NewConfigSchemaCmd(),
		NewDemoServerCmd(),
		cli.NewVersionCommand("ratedesk"),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// Execute runs the root command and reports any error. It returns the
// process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	handler := cli.NewErrorHandler(verbose)
	handler.Out = root.ErrOrStderr()
	handler.Handle(err)
	return 1
}
