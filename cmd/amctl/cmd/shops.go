package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func shopsCmd() *cobra.Command {
	shopsRoot := &cobra.Command{
		Use:   "shops",
		Short: "Manage connected Etsy shops",
		Long: "Manage the Etsy shops automerch acts on. Shops are added automatically\n" +
			"when an OAuth connection completes; exactly one shop can be the default.",
	}

	shopsRoot.AddCommand(
		shopsListCmd(),
		shopsGetCmd(),
		shopsAddCmd(),
		shopsDefaultCmd(),
		shopsDeleteCmd(),
	)

	return shopsRoot
}

func shopsListCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shops",
		Example: `  amctl shops list
  amctl shops list --active --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			shops, err := c.ListShops(context.Background(), activeOnly)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(shops)
			}
			if len(shops) == 0 {
				fmt.Fprintln(stdout, "No shops found.")
				return nil
			}
			return printShopTable(shops)
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only list active shops")

	return cmd
}

func shopsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [shop_id]",
		Short: "Show a shop, or the default shop when no id is given",
		Example: `  amctl shops get 12345678
  amctl shops get`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			var (
				shop *domain.Shop
				err  error
			)
			if len(args) == 0 {
				shop, err = c.GetDefaultShop(context.Background())
			} else {
				shop, err = c.GetShop(context.Background(), args[0])
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(shop)
			}
			return printShopDetail(shop)
		},
	}
}

func shopsAddCmd() *cobra.Command {
	var (
		in       apiclient.ShopInput
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <shop_id>",
		Short: "Add or update a shop",
		Example: `  amctl shops add 12345678 --name "Retro Prints" --default
  amctl shops add 87654321 --inactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ShopID = args[0]
			if cmd.Flags().Changed("inactive") {
				active := !inactive
				in.IsActive = &active
			}
			c := newClient()
			shop, err := c.SaveShop(context.Background(), &in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(shop)
			}
			fmt.Fprintf(stdout, "Shop saved: %s\n", shop.ShopID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ShopName, "name", "", "display name")
	cmd.Flags().StringVar(&in.ShopURL, "url", "", "storefront URL (default: the public Etsy URL)")
	cmd.Flags().StringVar(&in.Description, "description", "", "operator notes")
	cmd.Flags().BoolVar(&in.IsDefault, "default", false, "make this the default shop")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "mark the shop inactive")

	return cmd
}

func shopsDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-default <shop_id>",
		Short:   "Make a shop the default",
		Example: `  amctl shops set-default 12345678`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if _, err := c.SetDefaultShop(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Default shop is now %s.\n", args[0])
			return nil
		},
	}
}

func shopsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <shop_id>",
		Short:   "Remove a shop",
		Example: `  amctl shops delete 12345678`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteShop(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Shop %s deleted.\n", args[0])
			return nil
		},
	}
}
