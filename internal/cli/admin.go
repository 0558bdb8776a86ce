package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shopfront/internal/client/api"
)

func newDashboardCommand(get func() *app) *cobra.Command {
	return withPath(&cobra.Command{
		Use:   "dashboard",
		Short: "Show back-office totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			stats, err := a.hooks.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable("METRIC", "VALUE")
			table.RightAlign(1)
			table.AddRow("Products", humanize.Comma(int64(stats.Products)))
			table.AddRow("Customers", humanize.Comma(int64(stats.Customers)))
			table.AddRow("Orders", humanize.Comma(int64(stats.Orders)))
			table.AddRow("Pending returns", humanize.Comma(int64(stats.PendingReturns)))
			table.AddRow("Low stock", humanize.Comma(int64(stats.LowStock)))
			table.AddRow("Revenue", stats.Revenue)
			render(a.out, table)
			return nil
		},
	}, "/admin")
}

func newCustomersCommand(get func() *app) *cobra.Command {
	var page api.Page
	cmd := withPath(&cobra.Command{
		Use:   "customers",
		Short: "List customer accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			customers, err := a.hooks.Customers(cmd.Context(), page)
			if err != nil {
				return err
			}
			table := newTable("ID", "NAME", "EMAIL", "STATUS", "JOINED")
			for _, c := range customers {
				table.AddRow(c.ID, c.FirstName+" "+c.LastName, c.Email, c.Status, humanize.Time(c.CreatedAt))
			}
			render(a.out, table)
			return nil
		},
	}, "/admin/customers")
	cmd.Flags().IntVar(&page.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&page.PerPage, "per-page", 0, "page size")
	return cmd
}

func newPurchaseOrdersCommand(get func() *app) *cobra.Command {
	var page api.Page
	cmd := withPath(&cobra.Command{
		Use:     "purchase-orders",
		Aliases: []string{"po"},
		Short:   "List supplier purchase orders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			orders, err := a.hooks.PurchaseOrders(cmd.Context(), page)
			if err != nil {
				return err
			}
			table := newTable("ID", "SUPPLIER", "STATUS", "LINES", "CREATED")
			table.RightAlign(3)
			for _, po := range orders {
				table.AddRow(po.ID, po.Supplier, po.Status, len(po.Items), humanize.Time(po.CreatedAt))
			}
			render(a.out, table)
			return nil
		},
	}, "/admin/purchase-orders")
	cmd.Flags().IntVar(&page.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&page.PerPage, "per-page", 0, "page size")
	return cmd
}
