package main

import (
	"github.com/spf13/cobra"
)

func newActivityCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log (admin)",
	}
	var page int
	list := protected(a, &cobra.Command{
		Use:   "list",
		Short: "List one page of the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := a.services.Activity.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return a.print(cmd, logs)
		},
	})
	list.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	cmd.AddCommand(list)
	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	return protected(a, &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.services.Dashboard.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, stats)
		},
	})
}
