package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			route, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			u := a.session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\nNext: %s\n", u.Name, u.Email, route)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	required(cmd, "email", "password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := a.session.User()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			role := "customer"
			if u.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", u.Name, u.Email, role)
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var req models.RegisterRequest
	var confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.auth.Register(cmd.Context(), req, confirm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", a.session.User().Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "at least 6 characters")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password")
	required(cmd, "name", "email", "password", "confirm")
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "password", Short: "Forgot, reset or change a password"}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.auth.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if res.ResetToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Reset token: %s\n", res.ResetToken)
			}
			return nil
		},
	}
	forgot.Flags().StringVar(&email, "email", "", "account email")
	required(forgot, "email")

	var newPassword, confirm string
	reset := &cobra.Command{
		Use:   "reset TOKEN",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.auth.ResetPassword(cmd.Context(), args[0], newPassword, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset, you can log in now")
			return nil
		},
	}
	reset.Flags().StringVar(&newPassword, "password", "", "new password")
	reset.Flags().StringVar(&confirm, "confirm", "", "repeat the new password")
	required(reset, "password", "confirm")

	var current, next, nextConfirm string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the signed-in user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.ChangePassword(cmd.Context(), current, next, nextConfirm); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
	update.Flags().StringVar(&current, "current", "", "current password")
	update.Flags().StringVar(&next, "new", "", "new password")
	update.Flags().StringVar(&nextConfirm, "confirm", "", "repeat the new password")
	required(update, "current", "new", "confirm")

	cmd.AddCommand(forgot, reset, update)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Show or edit your profile"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Fetch the profile from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.users.GetProfile(cmd.Context())
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printUser(cmd, u)
			return nil
		},
	}

	var upd models.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change name or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.auth.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printUser(cmd, u)
			return nil
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "display name")
	update.Flags().StringVar(&upd.Phone, "phone", "", "phone number")
	required(update, "name")

	cmd.AddCommand(show, update)
	return cmd
}

func printUser(cmd *cobra.Command, u *models.User) {
	tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "EMAIL", "PHONE", "ADMIN")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone, yesNo(u.IsAdmin))
	_ = tw.Flush()
}
