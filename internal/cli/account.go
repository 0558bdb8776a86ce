package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shopfront/internal/client/api"
)

// accountCommand builds a subcommand under /account that runs only with a
// stored session.
func accountCommand(get func() *app, path string, cmd *cobra.Command, run func(*app, *cobra.Command, []string) error) *cobra.Command {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a := get()
		if err := a.requireCustomer(); err != nil {
			return err
		}
		return run(a, cmd, args)
	}
	return withPath(cmd, path)
}

func newAccountCommand(get func() *app) *cobra.Command {
	cmd := withPath(&cobra.Command{
		Use:   "account",
		Short: "Your rewards, wishlist, addresses and returns",
	}, "/account")

	rewards := accountCommand(get, "/account/rewards", &cobra.Command{
		Use:   "rewards",
		Short: "Show the reward points balance",
		Args:  cobra.NoArgs,
	}, func(a *app, cmd *cobra.Command, _ []string) error {
		r, err := a.hooks.Rewards(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Balance: %s points\n", humanize.Comma(int64(r.Balance)))
		if len(r.Entries) == 0 {
			return nil
		}
		table := newTable("POINTS", "REASON", "WHEN")
		table.RightAlign(0)
		for _, e := range r.Entries {
			table.AddRow(e.Points, e.Reason, humanize.Time(e.CreatedAt))
		}
		render(a.out, table)
		return nil
	})

	cmd.AddCommand(rewards, newWishlistCommand(get), newAddressesCommand(get), newReturnsCommand(get))
	return cmd
}

func newWishlistCommand(get func() *app) *cobra.Command {
	cmd := accountCommand(get, "/account/wishlist", &cobra.Command{
		Use:   "wishlist",
		Short: "List saved products",
		Args:  cobra.NoArgs,
	}, func(a *app, cmd *cobra.Command, _ []string) error {
		entries, err := a.hooks.Wishlist(cmd.Context())
		if err != nil {
			return err
		}
		table := newTable("PRODUCT", "NAME", "SAVED")
		for _, e := range entries {
			name := ""
			if e.Product != nil {
				name = e.Product.Name
			}
			table.AddRow(e.ProductID, name, humanize.Time(e.CreatedAt))
		}
		render(a.out, table)
		return nil
	})

	add := accountCommand(get, "/account/wishlist", &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Save a product",
		Args:  cobra.ExactArgs(1),
	}, func(a *app, cmd *cobra.Command, args []string) error {
		if err := a.hooks.AddToWishlist(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Added to wishlist")
		return nil
	})

	remove := accountCommand(get, "/account/wishlist", &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Forget a saved product",
		Args:  cobra.ExactArgs(1),
	}, func(a *app, cmd *cobra.Command, args []string) error {
		if err := a.hooks.RemoveFromWishlist(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Removed from wishlist")
		return nil
	})

	cmd.AddCommand(add, remove)
	return cmd
}

func newAddressesCommand(get func() *app) *cobra.Command {
	cmd := accountCommand(get, "/account/addresses", &cobra.Command{
		Use:   "addresses",
		Short: "List shipping addresses",
		Args:  cobra.NoArgs,
	}, func(a *app, cmd *cobra.Command, _ []string) error {
		table := newTable("ID", "ADDRESS", "DEFAULT")
		for _, addr := range a.hooks.Addresses(cmd.Context()) {
			parts := []string{addr.Line1}
			if addr.Line2 != nil {
				parts = append(parts, *addr.Line2)
			}
			parts = append(parts, addr.PostalCode+" "+addr.City, addr.Country)
			table.AddRow(addr.ID, strings.Join(parts, ", "), addr.IsDefault)
		}
		render(a.out, table)
		return nil
	})

	var req api.AddressRequest
	add := accountCommand(get, "/account/addresses", &cobra.Command{
		Use:   "add",
		Short: "Add a shipping address",
		Args:  cobra.NoArgs,
	}, func(a *app, cmd *cobra.Command, _ []string) error {
		created, err := a.hooks.CreateAddress(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Address %s saved\n", created.ID)
		return nil
	})
	add.Flags().StringVar(&req.Line1, "line1", "", "street and number")
	add.Flags().StringVar(&req.City, "city", "", "city")
	add.Flags().StringVar(&req.PostalCode, "postal-code", "", "postal code")
	add.Flags().StringVar(&req.Country, "country", "", "two-letter country code")
	add.Flags().BoolVar(&req.IsDefault, "default", false, "use as default address")
	_ = add.MarkFlagRequired("line1")
	_ = add.MarkFlagRequired("city")
	_ = add.MarkFlagRequired("country")

	remove := accountCommand(get, "/account/addresses", &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a shipping address",
		Args:  cobra.ExactArgs(1),
	}, func(a *app, cmd *cobra.Command, args []string) error {
		if err := a.hooks.DeleteAddress(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Address deleted")
		return nil
	})

	cmd.AddCommand(add, remove)
	return cmd
}

func newReturnsCommand(get func() *app) *cobra.Command {
	cmd := accountCommand(get, "/account/returns", &cobra.Command{
		Use:   "returns",
		Short: "List return requests",
		Args:  cobra.NoArgs,
	}, func(a *app, cmd *cobra.Command, _ []string) error {
		returns, err := a.hooks.Returns(cmd.Context())
		if err != nil {
			return err
		}
		table := newTable("ID", "ORDER", "STATUS", "REFUND")
		table.RightAlign(3)
		for _, r := range returns {
			table.AddRow(r.ID, r.OrderID, r.Status, r.RefundAmount)
		}
		render(a.out, table)
		return nil
	})

	var reason string
	request := accountCommand(get, "/account/returns", &cobra.Command{
		Use:   "request ORDER_ID",
		Short: "Ask for an order to be returned",
		Args:  cobra.ExactArgs(1),
	}, func(a *app, cmd *cobra.Command, args []string) error {
		ret, err := a.hooks.RequestReturn(cmd.Context(), args[0], reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Return %s requested\n", ret.ID)
		return nil
	})
	request.Flags().StringVar(&reason, "reason", "", "why the order goes back")
	_ = request.MarkFlagRequired("reason")

	cmd.AddCommand(request)
	return cmd
}
