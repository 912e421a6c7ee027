package main

import (
	"fmt"
	"strings"

	"github.com/capstone-insurance/portal/internal/models"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/spf13/cobra"
)

func newClaimsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "File and review claims",
	}

	filter := models.ClaimFilter{}
	var status string
	list := protected(a, &cobra.Command{
		Use:   "list",
		Short: "List all claims (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				filter.Status = models.ClaimStatus(strings.ToUpper(status))
				if !filter.Status.Valid() {
					return fmt.Errorf("unknown claim status %q", status)
				}
			}
			for _, date := range []string{filter.From, filter.To} {
				if date != "" && !validation.Date(date) {
					return fmt.Errorf("invalid date %q", date)
				}
			}
			claims, err := a.services.Claims.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(cmd, claims)
		},
	})
	list.Flags().IntVar(&filter.Page, "page", 0, "Page number, starting at 0")
	list.Flags().StringVar(&status, "status", "", "Only claims with this status (PENDING, APPROVED, REJECTED)")
	list.Flags().StringVar(&filter.From, "from", "", "Only claims filed on or after this date")
	list.Flags().StringVar(&filter.To, "to", "", "Only claims filed on or before this date")
	cmd.AddCommand(list)

	cmd.AddCommand(protected(a, &cobra.Command{
		Use:   "mine",
		Short: "List the claims of the logged in customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := a.services.Claims.Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, claims)
		},
	}))

	form := validation.ClaimForm{}
	create := protected(a, &cobra.Command{
		Use:   "create",
		Short: "File a claim against one of your policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := form.Validate(); !errs.Valid() {
				return formError(errs)
			}
			claim, err := a.services.Claims.Create(cmd.Context(), form.Request())
			if err != nil {
				return err
			}
			return a.print(cmd, claim)
		},
	})
	create.Flags().StringVar(&form.PolicyID, "policy", "", "ID of the policy")
	create.Flags().StringVar(&form.ClaimAmount, "amount", "", "Claimed amount")
	create.Flags().StringVar(&form.ClaimDate, "date", "", "Date of the incident (YYYY-MM-DD)")
	create.Flags().StringVar(&form.Description, "description", "", "What happened")
	create.Flags().StringVar(&form.EvidenceURL, "evidence", "", "Link to supporting documents")
	cmd.AddCommand(create)

	review := validation.ClaimReviewForm{}
	reviewCmd := protected(a, &cobra.Command{
		Use:   "review [id]",
		Short: "Set the status of a claim (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if errs := review.Validate(); !errs.Valid() {
				return formError(errs)
			}
			claim, err := a.services.Claims.UpdateStatus(cmd.Context(), id, review.Request())
			if err != nil {
				return err
			}
			return a.print(cmd, claim)
		},
	})
	reviewCmd.Flags().StringVar(&review.Status, "status", "", "New status (PENDING, APPROVED, REJECTED)")
	reviewCmd.Flags().StringVar(&review.Remarks, "remarks", "", "Remarks shown to the customer")
	cmd.AddCommand(reviewCmd)
	return cmd
}
