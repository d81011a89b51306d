package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Your orders, and order administration"}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.guard(routes.Orders); err != nil {
				return err
			}
			orders, err := a.orders.ListMine(cmd.Context())
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printOrders(cmd, orders)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.Orders); err != nil {
				return err
			}
			o, err := a.orders.Get(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printOrder(cmd, o)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every order (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.guard(routes.AdminOrders); err != nil {
				return err
			}
			m := controllers.NewOrderManager(a.orders)
			if err := m.Load(cmd.Context()); err != nil {
				return a.fail(cmd.Context(), err)
			}
			printOrders(cmd, m.Orders())
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search CUSTOMER",
		Short: "Find orders by customer name (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminOrders); err != nil {
				return err
			}
			res, err := controllers.NewOrderManager(a.orders, a.searchOpts()...).Search(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printOrders(cmd, res)
			return nil
		},
	}

	adminAction := func(use, short, done string, act func(*controllers.OrderManager, *cobra.Command, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.guard(routes.AdminOrders); err != nil {
					return err
				}
				if err := act(controllers.NewOrderManager(a.orders), cmd, args[0]); err != nil {
					return a.fail(cmd.Context(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), done)
				return nil
			},
		}
	}
	pay := adminAction("pay", "Mark an order paid (admin)", "Order marked paid",
		func(m *controllers.OrderManager, cmd *cobra.Command, id string) error { return m.MarkPaid(cmd.Context(), id) })
	deliver := adminAction("deliver", "Mark an order delivered (admin)", "Order marked delivered",
		func(m *controllers.OrderManager, cmd *cobra.Command, id string) error { return m.MarkDelivered(cmd.Context(), id) })

	// Owners may cancel their own unpaid orders, so only a login is required.
	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.Orders); err != nil {
				return err
			}
			if err := controllers.NewOrderManager(a.orders).Cancel(cmd.Context(), args[0]); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Order cancelled")
			return nil
		},
	}

	cmd.AddCommand(mine, show, list, search, pay, deliver, cancel)
	return cmd
}

func printOrders(cmd *cobra.Command, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders")
		return
	}
	tw := newTable(cmd.OutOrStdout(), "ID", "CODE", "CUSTOMER", "DATE", "TOTAL", "PAID", "DELIVERED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.OrderCode, o.Customer(),
			o.CreatedAt.Format("2006-01-02"), money(o.TotalPrice), yesNo(o.IsPaid), yesNo(o.IsDelivered))
	}
	_ = tw.Flush()
}

func printOrder(cmd *cobra.Command, o *models.Order) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Order %s for %s, placed %s\n", o.OrderCode, o.Customer(), o.CreatedAt.Format("2006-01-02 15:04"))
	addr := o.ShippingAddress
	fmt.Fprintf(out, "Ship to %s, %s, %s, %s (%s)\n", addr.Fullname, addr.Address, addr.City, addr.Country, addr.Phone)
	tw := newTable(out, "PRODUCT", "NAME", "PRICE", "QTY")
	for _, it := range o.OrderItems {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", it.Product, it.Name, money(it.Price), it.Quantity)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "Total %s via %s, paid: %s, delivered: %s\n",
		money(o.TotalPrice), o.PaymentMethod, yesNo(o.IsPaid), yesNo(o.IsDelivered))
}
