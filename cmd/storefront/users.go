package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage customer accounts (admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.guard(routes.AdminUsers)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := controllers.NewUserManager(a.users)
			if err := m.Load(cmd.Context()); err != nil {
				return a.fail(cmd.Context(), err)
			}
			printUsers(cmd, m.Users())
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find users by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := controllers.NewUserManager(a.users, a.searchOpts()...).Search(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printUsers(cmd, res)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a non-admin user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := controllers.NewUserManager(a.users).Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User deleted")
			return nil
		},
	}

	var revoke bool
	promote := &cobra.Command{
		Use:   "promote ID",
		Short: "Grant admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := controllers.NewUserManager(a.users).SetAdmin(cmd.Context(), args[0], !revoke); err != nil {
				return a.fail(cmd.Context(), err)
			}
			if revoke {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin rights revoked")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin rights granted")
			}
			return nil
		},
	}
	promote.Flags().BoolVar(&revoke, "revoke", false, "take admin rights away instead")

	cmd.AddCommand(list, search, del, promote)
	return cmd
}

func printUsers(cmd *cobra.Command, users []models.User) {
	tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "EMAIL", "PHONE", "ADMIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone, yesNo(u.IsAdmin))
	}
	_ = tw.Flush()
}
