package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"shopfront/internal/client/api"
)

func newCategoriesCommand(get func() *app) *cobra.Command {
	cmd := withPath(&cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse and manage categories",
	}, "/categories")

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			categories, err := a.hooks.Categories(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable("ID", "NAME", "SLUG", "UPDATED")
			for _, c := range categories {
				table.AddRow(c.ID, c.Name, c.Slug, humanize.Time(c.UpdatedAt))
			}
			render(a.out, table)
			return nil
		},
	}

	var slug, description string
	create := withPath(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a category; the slug is derived from the name when omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			req := api.CategoryRequest{Name: args[0], Slug: slug}
			if description != "" {
				req.Description = &description
			}
			created, err := a.hooks.CreateCategory(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created category %s (%s)\n", created.Name, created.Slug)
			return nil
		},
	}, "/admin/categories")
	create.Flags().StringVar(&slug, "slug", "", "explicit slug")
	create.Flags().StringVar(&description, "description", "", "category description")

	var newSlug, newDescription string
	update := withPath(&cobra.Command{
		Use:   "update ID NAME",
		Short: "Replace name, slug and description of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			req := api.CategoryRequest{Name: args[1], Slug: newSlug}
			if newDescription != "" {
				req.Description = &newDescription
			}
			updated, err := a.hooks.UpdateCategory(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated category %s (%s)\n", updated.Name, updated.Slug)
			return nil
		},
	}, "/admin/categories")
	update.Flags().StringVar(&newSlug, "slug", "", "slug, derived from NAME when empty")
	update.Flags().StringVar(&newDescription, "description", "", "category description")

	del := withPath(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category no product uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if err := a.hooks.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Category deleted")
			return nil
		},
	}, "/admin/categories")

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func newProductsCommand(get func() *app) *cobra.Command {
	var q api.ProductQuery
	cmd := withPath(&cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			products, err := a.hooks.Products(cmd.Context(), q)
			if err != nil {
				return err
			}
			table := newTable("ID", "NAME", "PRICE", "STOCK")
			table.RightAlign(2)
			table.RightAlign(3)
			for _, p := range products {
				table.AddRow(p.ID, p.Name, money(p.PriceCents), humanize.Comma(int64(p.Stock)))
			}
			render(a.out, table)
			return nil
		},
	}, "/products")
	cmd.Flags().StringVar(&q.Category, "category", "", "category slug")
	cmd.Flags().StringVarP(&q.Search, "search", "q", "", "search name and description")
	cmd.Flags().BoolVar(&q.All, "all", false, "include inactive products (staff)")
	cmd.Flags().IntVar(&q.Page.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&q.Page.PerPage, "per-page", 0, "page size")
	return cmd
}

func newReviewsCommand(get func() *app) *cobra.Command {
	return withPath(&cobra.Command{
		Use:   "reviews PRODUCT_ID",
		Short: "List the reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			reviews, err := a.hooks.Reviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := newTable("AUTHOR", "RATING", "COMMENT", "WHEN")
			for _, r := range reviews {
				table.AddRow(r.Author, r.Rating, r.Comment, humanize.Time(r.CreatedAt))
			}
			render(a.out, table)
			return nil
		},
	}, "/products")
}
