package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the most recent job search report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			text, err := a.reports.ReadReport(cmd.Context())
			if errors.Is(err, report.ErrNoReport) {
				fmt.Fprintln(cmd.OutOrStdout(), "No report found. Run a job search first.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
