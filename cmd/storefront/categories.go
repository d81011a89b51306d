package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/routes"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "List and manage categories"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := controllers.NewCategoryManager(a.categories)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME")
			for _, c := range m.Categories() {
				fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
			}
			return tw.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminCategories); err != nil {
				return err
			}
			c, err := controllers.NewCategoryManager(a.categories).Create(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a category (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminCategories); err != nil {
				return err
			}
			if err := controllers.NewCategoryManager(a.categories).Rename(cmd.Context(), args[0], args[1]); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category renamed")
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an unused category (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminCategories); err != nil {
				return err
			}
			if err := controllers.NewCategoryManager(a.categories).Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category deleted")
			return nil
		},
	}

	cmd.AddCommand(list, add, rename, del)
	return cmd
}
