package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit your cart",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest persistent hook
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.guard(routes.Cart)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the priced cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := a.cart.Load(cmd.Context())
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printCart(cmd, a.cart, sum)
			return nil
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.cart.AddToCart(cmd.Context(), *p, quantity); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d × %s\n", quantity, p.Name)
			return nil
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")

	update := &cobra.Command{
		Use:   "update PRODUCT_ID QUANTITY",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if _, err := a.cart.Load(cmd.Context()); err != nil {
				return a.fail(cmd.Context(), err)
			}
			sum, err := a.cart.SetQuantity(cmd.Context(), args[0], qty)
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printCart(cmd, a.cart, sum)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.cart.Remove(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			printCart(cmd, a.cart, sum)
			return nil
		},
	}

	cmd.AddCommand(show, add, update, remove)
	return cmd
}

func printCart(cmd *cobra.Command, cart *controllers.CartController, sum models.CartSummary) {
	out := cmd.OutOrStdout()
	if sum.Empty() {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	tw := newTable(out, "PRODUCT", "NAME", "PRICE", "QTY", "TOTAL", "")
	for _, it := range sum.Cart.CartItems {
		note := ""
		if it.AtStockLimit() {
			note = "max"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", it.Product.ID, it.Product.Name,
			money(it.Product.Price), it.Quantity, money(it.LineTotal()), note)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "Items %s  Shipping %s  Tax %s  Total %s\n",
		money(sum.ItemsPrice), money(sum.ShippingPrice), money(sum.TaxPrice), money(cart.Total()))
}

func newCheckoutCmd(a *app) *cobra.Command {
	var addr models.ShippingAddress
	var payment, buyNow string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart or a single product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.guard(routes.Checkout); err != nil {
				return err
			}

			var intent controllers.Intent
			if buyNow != "" {
				p, err := a.products.Get(ctx, buyNow)
				if err != nil {
					return err
				}
				intent = controllers.BuyNow(*p)
			} else {
				if _, err := a.cart.Load(ctx); err != nil {
					return a.fail(ctx, err)
				}
				var err error
				if intent, err = a.cart.CheckoutIntent(); err != nil {
					return err
				}
			}

			co, err := controllers.NewCheckout(a.orders, intent)
			if err != nil {
				return err
			}
			order, err := co.Submit(ctx, addr, payment)
			if err != nil {
				return a.fail(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed, total %s, pay with %s\n",
				order.OrderCode, money(order.TotalPrice), order.PaymentMethod)
			return nil
		},
	}
	cmd.Flags().StringVar(&buyNow, "buy-now", "", "buy one unit of this product instead of the cart")
	cmd.Flags().StringVar(&addr.Fullname, "fullname", "", "recipient name")
	cmd.Flags().StringVar(&addr.Phone, "phone", "", "recipient phone")
	cmd.Flags().StringVar(&addr.Address, "address", "", "street address")
	cmd.Flags().StringVar(&addr.City, "city", "", "city")
	cmd.Flags().StringVar(&addr.Country, "country", "", "country")
	cmd.Flags().StringVar(&payment, "payment", models.DefaultPaymentMethod, "payment method")
	return cmd
}
