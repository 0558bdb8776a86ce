package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shopfront/internal/client/api"
	"shopfront/internal/client/authctx"
)

func newLoginCommand(get func() *app) *cobra.Command {
	var (
		email, password string
		admin           bool
	)
	cmd := withPath(&cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if admin {
				res := a.admin.Login(cmd.Context(), email, password)
				if !res.Success {
					return errors.New(res.Error)
				}
				fmt.Fprintf(a.out, "Signed in as %s (%s)\n", res.User.DisplayName, res.User.Role)
				return nil
			}

			res, err := a.api.Auth.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			if err := a.store.Save(res.Session()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", res.User.Email)
			return nil
		},
	}, authctx.LoginPath)
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&admin, "admin", false, "sign in to the back office")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(get func() *app) *cobra.Command {
	return withPath(&cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			a.admin.Logout(cmd.Context())
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}, authctx.LoginPath)
}

func newWhoamiCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			stored, ok := a.store.CustomerSession()
			if !ok {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if stored.User == nil {
				fmt.Fprintln(a.out, "Signed in (unknown user)")
				return nil
			}
			fmt.Fprintf(a.out, "%s %s <%s> role=%s\n", stored.User.FirstName, stored.User.LastName, stored.User.Email, stored.User.Role)
			return nil
		},
	}
}
