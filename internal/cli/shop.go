package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shopfront/internal/models"
)

func printCart(a *app, cart models.Cart) {
	if len(cart.Items) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return
	}
	table := newTable("PRODUCT", "NAME", "QTY", "PRICE")
	table.RightAlign(2)
	table.RightAlign(3)
	for _, item := range cart.Items {
		table.AddRow(item.ProductID, item.Name, item.Quantity, money(item.PriceCents))
	}
	table.AddRow("", "", "", "")
	table.AddRow("Total", "", "", money(cart.TotalCents))
	render(a.out, table)
}

func newCartCommand(get func() *app) *cobra.Command {
	cmd := withPath(&cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			cart, err := a.hooks.Cart(cmd.Context())
			if err != nil {
				return err
			}
			printCart(a, cart)
			return nil
		},
	}, "/cart")

	add := &cobra.Command{
		Use:   "add PRODUCT_ID [QUANTITY]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				quantity = n
			}
			a := get()
			cart, err := a.hooks.AddToCart(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			printCart(a, cart)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			cart, err := a.hooks.RemoveFromCart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCart(a, cart)
			return nil
		},
	}

	var addressID string
	checkout := withPath(&cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.requireCustomer(); err != nil {
				return err
			}
			var shipping *string
			if addressID != "" {
				shipping = &addressID
			}
			order, err := a.hooks.Checkout(cmd.Context(), shipping)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s placed, total %s\n", order.ID, money(order.TotalCents))
			return nil
		},
	}, "/account/checkout")
	checkout.Flags().StringVar(&addressID, "address", "", "shipping address id")

	cmd.AddCommand(add, remove, checkout)
	return cmd
}

func newOrdersCommand(get func() *app) *cobra.Command {
	return withPath(&cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.requireCustomer(); err != nil {
				return err
			}
			orders, err := a.hooks.Orders(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable("ID", "STATUS", "TOTAL", "PLACED")
			table.RightAlign(2)
			for _, o := range orders {
				table.AddRow(o.ID, o.Status, money(o.TotalCents), humanize.Time(o.CreatedAt))
			}
			render(a.out, table)
			return nil
		},
	}, "/account/orders")
}
