package main

import (
	"fmt"

	"github.com/capstone-insurance/portal/internal/services"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/spf13/cobra"
)

func newPoliciesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Manage insurance policies",
	}

	var page int
	var search string
	list := protected(a, &cobra.Command{
		Use:   "list",
		Short: "List all policies (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, err := a.services.Policies.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			policies.Content = services.SearchPolicies(policies.Content, search)
			return a.print(cmd, policies)
		},
	})
	list.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	list.Flags().StringVar(&search, "search", "", "Only show the policies of the page whose number or type contains this text")
	cmd.AddCommand(list)

	cmd.AddCommand(protected(a, &cobra.Command{
		Use:   "get [id]",
		Short: "Show one policy (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			policy, err := a.services.Policies.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(cmd, policy)
		},
	}))

	form := validation.PolicyForm{}
	create := protected(a, &cobra.Command{
		Use:   "create",
		Short: "Create a policy (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := form.Validate(); !errs.Valid() {
				return formError(errs)
			}
			policy, err := a.services.Policies.Create(cmd.Context(), form.Request())
			if err != nil {
				return err
			}
			return a.print(cmd, policy)
		},
	})
	create.Flags().StringVar(&form.PolicyNumber, "number", "", "Policy number")
	create.Flags().StringVar(&form.PolicyType, "type", "", "Policy type, for example HEALTH")
	create.Flags().StringVar(&form.PremiumAmount, "premium", "", "Premium amount")
	create.Flags().StringVar(&form.CoverageAmount, "coverage", "", "Coverage amount")
	create.Flags().StringVar(&form.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	create.Flags().StringVar(&form.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.AddCommand(create)

	update := protected(a, &cobra.Command{
		Use:   "update [id]",
		Short: "Change a policy (admin), fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.services.Policies.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			form := validation.PolicyFormFrom(current)
			flags := cmd.Flags()
			for flag, field := range map[string]*string{
				"number":   &form.PolicyNumber,
				"type":     &form.PolicyType,
				"premium":  &form.PremiumAmount,
				"coverage": &form.CoverageAmount,
				"start":    &form.StartDate,
				"end":      &form.EndDate,
				"status":   &form.Status,
			} {
				if flags.Changed(flag) {
					*field, _ = flags.GetString(flag)
				}
			}
			if errs := form.Validate(); !errs.Valid() {
				return formError(errs)
			}
			policy, err := a.services.Policies.Update(cmd.Context(), id, form.Request())
			if err != nil {
				return err
			}
			return a.print(cmd, policy)
		},
	})
	update.Flags().String("number", "", "Policy number")
	update.Flags().String("type", "", "Policy type, for example HEALTH")
	update.Flags().String("premium", "", "Premium amount")
	update.Flags().String("coverage", "", "Coverage amount")
	update.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	update.Flags().String("end", "", "End date (YYYY-MM-DD)")
	update.Flags().String("status", "", "Policy status, for example ACTIVE")
	cmd.AddCommand(update)

	cmd.AddCommand(protected(a, &cobra.Command{
		Use:   "assign [customer-id] [policy-id]",
		Short: "Assign a policy to a customer (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := validation.AssignForm{CustomerID: args[0], PolicyID: args[1]}
			if errs := form.Validate(); !errs.Valid() {
				return formError(errs)
			}
			customerID, policyID := form.IDs()
			err := a.services.Policies.Assign(cmd.Context(), customerID, policyID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Policy assigned")
			return nil
		},
	}))

	cmd.AddCommand(protected(a, &cobra.Command{
		Use:   "mine",
		Short: "List the policies of the logged in customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, err := a.services.Policies.Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, policies)
		},
	}))
	return cmd
}
