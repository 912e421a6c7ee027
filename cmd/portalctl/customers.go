package main

import (
	"fmt"
	"strconv"

	"github.com/capstone-insurance/portal/internal/services"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/spf13/cobra"
)

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", value)
	}
	return id, nil
}

func newCustomersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Manage customers (admin)",
	}
	var search string
	list := protected(a, &cobra.Command{
		Use:   "list",
		Short: "List all customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := a.services.Customers.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, services.SearchCustomers(customers, search))
		},
	})
	list.Flags().StringVar(&search, "search", "", "Only show customers whose name, email, phone, username or address contains this text")
	cmd.AddCommand(list)
	cmd.AddCommand(protected(a, &cobra.Command{
		Use:   "get [id]",
		Short: "Show one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			customer, err := a.services.Customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(cmd, customer)
		},
	}))

	form := validation.CustomerForm{}
	create := protected(a, &cobra.Command{
		Use:   "create",
		Short: "Create a customer together with its login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := form.Validate(true); !errs.Valid() {
				return formError(errs)
			}
			customer, err := a.services.Customers.Create(cmd.Context(), form.CreateRequest())
			if err != nil {
				return err
			}
			return a.print(cmd, customer)
		},
	})
	create.Flags().StringVar(&form.Name, "name", "", "Full name")
	create.Flags().StringVar(&form.Email, "email", "", "Email address")
	create.Flags().StringVar(&form.Phone, "phone", "", "Phone number, 10 digits")
	create.Flags().StringVar(&form.Address, "address", "", "Postal address")
	create.Flags().StringVar(&form.Username, "username", "", "Login name")
	create.Flags().StringVar(&form.Password, "password", "", "Initial password")
	cmd.AddCommand(create)

	var changes validation.CustomerForm
	update := protected(a, &cobra.Command{
		Use:   "update [id]",
		Short: "Change the details of a customer, fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.services.Customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			form := validation.CustomerFormFrom(current)
			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = changes.Name
			}
			if flags.Changed("email") {
				form.Email = changes.Email
			}
			if flags.Changed("phone") {
				form.Phone = changes.Phone
			}
			if flags.Changed("address") {
				form.Address = changes.Address
			}
			if errs := form.Validate(false); !errs.Valid() {
				return formError(errs)
			}
			customer, err := a.services.Customers.Update(cmd.Context(), id, form.UpdateRequest())
			if err != nil {
				return err
			}
			return a.print(cmd, customer)
		},
	})
	update.Flags().StringVar(&changes.Name, "name", "", "Full name")
	update.Flags().StringVar(&changes.Email, "email", "", "Email address")
	update.Flags().StringVar(&changes.Phone, "phone", "", "Phone number, 10 digits")
	update.Flags().StringVar(&changes.Address, "address", "", "Postal address")
	cmd.AddCommand(update)
	return cmd
}
