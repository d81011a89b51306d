package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse and manage the catalog"}
	cmd.AddCommand(
		newProductsListCmd(a),
		newProductsShowCmd(a),
		newProductsSearchCmd(a),
		newProductsReviewsCmd(a),
		newProductsReviewCmd(a),
		newProductsAddCmd(a),
		newProductsUpdateCmd(a),
		newProductsDeleteCmd(a),
	)
	return cmd
}

func newProductsListCmd(a *app) *cobra.Command {
	var q models.ProductQuery
	var checkImages bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, base, fallback := a.assets()
			catalog := controllers.NewCatalog(a.products, client, base, fallback)
			if _, err := catalog.Load(cmd.Context(), q); err != nil {
				return err
			}
			if checkImages {
				catalog.LoadImages(cmd.Context())
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "PRICE", "RATING", "STOCK", "", "IMAGE")
			for _, c := range catalog.Cards() {
				badge := ""
				if c.Hot {
					badge = "HOT"
				}
				stock := fmt.Sprint(c.Product.CountInStock)
				if !c.Product.InStock() {
					stock = "sold out"
				}
				img := c.Image.Src()
				if checkImages {
					img = c.Image.State().String() + " " + img
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					c.Product.ID, c.Product.Name, money(c.Product.Price), c.Stars, stock, badge, img)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			page, pages, total := catalog.Pagination()
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d, %d products\n", page, pages, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Keyword, "keyword", "", "filter by name")
	cmd.Flags().StringVar(&q.Category, "category", "", "filter by category id")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number")
	cmd.Flags().BoolVar(&checkImages, "check-images", false, "probe every product image")
	return cmd
}

func newProductsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one product with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s\n", p.Name, money(p.Price), controllers.Stars(p.Rating))
			fmt.Fprintf(out, "%s\n", p.Description)
			if p.InStock() {
				fmt.Fprintf(out, "In stock: %d\n", p.CountInStock)
			} else {
				fmt.Fprintln(out, "Out of stock")
			}
			fmt.Fprintf(out, "Image: %s\n", controllers.ResolveAsset(a.cfg.AssetBaseURL, p.Image))
			fmt.Fprintf(out, "Page: %s\n", routes.ProductPath(p.ID))
			printReviews(cmd, p.Reviews)
			return nil
		},
	}
}

func newProductsSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search every page of the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := controllers.NewProductManager(a.products, a.searchOpts()...)
			res, err := m.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProducts(cmd, res)
			return nil
		},
	}
}

func newProductsReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews ID",
		Short: "List a product's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.products.ListReviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReviews(cmd, reviews)
			return nil
		},
	}
}

func newProductsReviewCmd(a *app) *cobra.Command {
	var in models.ReviewInput
	cmd := &cobra.Command{
		Use:   "review ID",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.products.AddReview(cmd.Context(), args[0], in); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Review added")
			return nil
		},
	}
	cmd.Flags().IntVar(&in.Rating, "rating", 0, "1 to 5")
	cmd.Flags().StringVar(&in.Comment, "comment", "", "review text")
	required(cmd, "rating", "comment")
	return cmd
}

// productFlags binds the admin product form.
type productFlags struct {
	form  models.ProductForm
	price string
	image string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.form.Name, "name", "", "product name")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.form.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.form.Category, "category", "", "category id")
	cmd.Flags().IntVar(&f.form.Rating, "rating", 0, "1 to 5")
	cmd.Flags().IntVar(&f.form.CountInStock, "stock", 0, "units in stock")
	cmd.Flags().StringVar(&f.image, "image", "", "path to an image file")
	required(cmd, "name", "price", "description", "category", "rating")
}

func (f *productFlags) build() (models.ProductForm, error) {
	form := f.form
	price, err := decimal.NewFromString(f.price)
	if err != nil {
		return form, fmt.Errorf("invalid price %q", f.price)
	}
	form.Price = price
	if f.image != "" {
		data, err := os.ReadFile(f.image)
		if err != nil {
			return form, fmt.Errorf("read image: %w", err)
		}
		form.ImageName = filepath.Base(f.image)
		form.Image = data
	}
	return form, nil
}

func newProductsAddCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.guard(routes.AdminProducts); err != nil {
				return err
			}
			form, err := f.build()
			if err != nil {
				return err
			}
			p, err := controllers.NewProductManager(a.products).Create(cmd.Context(), form)
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newProductsUpdateCmd(a *app) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminProducts); err != nil {
				return err
			}
			form, err := f.build()
			if err != nil {
				return err
			}
			p, err := controllers.NewProductManager(a.products).Update(cmd.Context(), args[0], form)
			if err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newProductsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard(routes.AdminProducts); err != nil {
				return err
			}
			if err := controllers.NewProductManager(a.products).Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(cmd.Context(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product deleted")
			return nil
		},
	}
}

func printProducts(cmd *cobra.Command, products []models.Product) {
	tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "PRICE", "STOCK", "CATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, money(p.Price), p.CountInStock, p.Category)
	}
	_ = tw.Flush()
}

func printReviews(cmd *cobra.Command, reviews []models.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reviews yet")
		return
	}
	tw := newTable(cmd.OutOrStdout(), "NAME", "RATING", "DATE", "COMMENT")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, controllers.Stars(float64(r.Rating)),
			r.CreatedAt.Format("2006-01-02"), r.Comment)
	}
	_ = tw.Flush()
}
