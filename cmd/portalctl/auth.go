package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the portal",
		Long:  "Log in to the portal. The password is read from the input when the flag is not given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if password == "" {
				password, err = readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("the password cannot be empty")
			}
			identity, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return a.print(cmd, identity)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	if err := cmd.MarkFlagRequired("username"); err != nil {
		panic(err)
	}
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.client.Logout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

type whoami struct {
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	UserID    int64      `json:"userId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func newWhoamiCommand(a *app) *cobra.Command {
	return protected(a, &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			credential, err := a.client.Credential(cmd.Context())
			if err != nil {
				return err
			}
			output := whoami{Username: credential.Username, Role: string(credential.Role), UserID: credential.UserID}
			if expiresAt, ok := credential.ExpiresAt(); ok {
				output.ExpiresAt = &expiresAt
			}
			return a.print(cmd, output)
		},
	})
}
