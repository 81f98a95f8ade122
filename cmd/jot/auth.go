package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long:  `Start a session. Credentials are not verified: any email and password log in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.notebook(cmd.Context())
			if err != nil {
				return err
			}
			u, err := nb.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.printUser(cmd, u, "Logged in as")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.notebook(cmd.Context())
			if err != nil {
				return err
			}
			u, err := nb.Session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return a.printUser(cmd, u, "Registered")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and delete the local notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.notebook(cmd.Context())
			if err != nil {
				return err
			}
			if err := nb.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.notebook(cmd.Context())
			if err != nil {
				return err
			}
			u, err := a.currentUser(cmd.Context(), nb)
			if err != nil {
				return err
			}
			return a.printUser(cmd, u, "")
		},
	}
}

func (a *app) printUser(cmd *cobra.Command, u core.User, prefix string) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), u)
	}
	line := fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.ID)
	if prefix != "" {
		line = prefix + " " + line
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}
