package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "headhunter",
		Short: "Conversational job search agent",
		Long: "A conversational agent with durable threads and long-term user memory.\n" +
			"It can run a paid job search against regional job boards, but only after\n" +
			"you approve the quoted charge.",
		SilenceUsage: true,
	}

	root.AddCommand(chatCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "headhunter %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		},
	})
	return root
}
