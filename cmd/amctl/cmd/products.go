package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Manage catalog products",
		Long: "Manage the product catalog. Products are identified by SKU and can be\n" +
			"created on Printful before being listed on Etsy.",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsGetCmd(),
		productsCreateCmd(),
	)

	return productsRoot
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Example: `  amctl products list
  amctl products list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			products, err := c.ListProducts(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Fprintln(stdout, "No products found.")
				return nil
			}
			return printProductTable(products)
		},
	}
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <sku>",
		Short:   "Show product details",
		Example: `  amctl products get MUG-RETRO-11`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			p, err := c.GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(p)
		},
	}
}

func productsCreateCmd() *cobra.Command {
	var (
		in         apiclient.ProductInput
		price      float64
		variantID  int
		onPrintful bool
	)

	cmd := &cobra.Command{
		Use:   "create <sku>",
		Short: "Add a product",
		Long: "Add a product to the catalog. With --printful the product is first\n" +
			"created on Printful from --variant and --design, and the returned\n" +
			"sync variant id is stored with it.",
		Example: `  # Record a product
  amctl products create MUG-RETRO-11 --name "Retro Mug" --price 14.50

  # Create it on Printful too
  amctl products create MUG-RETRO-11 --name "Retro Mug" --price 14.50 \
    --printful --variant 4011 --design https://example.com/design.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.SKU = args[0]
			if in.Name == "" {
				return fmt.Errorf("--name is required")
			}
			if cmd.Flags().Changed("price") {
				in.Price = &price
			}
			if cmd.Flags().Changed("variant") {
				in.VariantID = &variantID
			}

			c := newClient()
			if onPrintful {
				if in.VariantID == nil {
					return fmt.Errorf("--variant is required with --printful")
				}
				res, err := c.CreatePrintfulProduct(context.Background(), &in)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(res)
				}
				fmt.Fprintf(stdout, "Printful product created: %s (sync variant %s)\n", in.SKU, res.SyncVariantID)
				return nil
			}

			p, err := c.SaveProduct(context.Background(), &in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			fmt.Fprintf(stdout, "Product saved: %s\n", p.SKU)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "product name")
	cmd.Flags().StringVar(&in.Description, "description", "", "listing description")
	cmd.Flags().Float64Var(&price, "price", 0, "retail price in USD")
	cmd.Flags().IntVar(&variantID, "variant", 0, "Printful catalog variant id")
	cmd.Flags().StringVar(&in.ThumbnailURL, "thumbnail", "", "preview image URL")
	cmd.Flags().StringVar(&in.DesignURL, "design", "", "print file URL (Printful only)")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "Etsy tags")
	cmd.Flags().BoolVar(&onPrintful, "printful", false, "create the product on Printful")

	return cmd
}
