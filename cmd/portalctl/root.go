package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "portalctl",
		Short:             "Insurance portal CLI",
		Long:              "Command line client for the insurance portal API. The session is kept between runs.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputYAML, "Output format (yaml or json)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL, overrides the configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newLoginCommand(a))
	root.AddCommand(newLogoutCommand(a))
	root.AddCommand(newWhoamiCommand(a))
	root.AddCommand(newCustomersCommand(a))
	root.AddCommand(newPoliciesCommand(a))
	root.AddCommand(newClaimsCommand(a))
	root.AddCommand(newActivityCommand(a))
	root.AddCommand(newDashboardCommand(a))
	return root
}

// protected marks a command as needing a logged in user.
func protected(a *app, cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = a.requireSession
	return cmd
}
