package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
)

func draftsCmd() *cobra.Command {
	draftsRoot := &cobra.Command{
		Use:   "drafts",
		Short: "Create and inspect Etsy draft listings",
		Long: "Create Etsy draft listings with price and images, and inspect the\n" +
			"listings automerch has recorded.",
	}

	draftsRoot.AddCommand(
		draftsCreateCmd(),
		draftsBatchCmd(),
		draftsListCmd(),
		draftsGetCmd(),
	)

	return draftsRoot
}

func draftsCreateCmd() *cobra.Command {
	var in apiclient.DraftInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one draft listing",
		Example: `  amctl drafts create --title "Retro Tee" --description "Soft cotton tee" \
    --price 24.99 --sku TEE-RETRO --image ./front.png --image https://example.com/back.png`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if in.Title == "" || in.Description == "" {
				return fmt.Errorf("--title and --description are required")
			}
			c := newClient()
			d, err := c.CreateDraft(context.Background(), &in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(d)
			}
			return printDraft(d)
		},
	}
	cmd.Flags().StringVar(&in.ShopID, "shop", "", "target shop (default: the default shop)")
	cmd.Flags().StringVar(&in.SKU, "sku", "", "product to link the listing to")
	cmd.Flags().StringVar(&in.Title, "title", "", "listing title")
	cmd.Flags().StringVar(&in.Description, "description", "", "listing description")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "price in USD")
	cmd.Flags().IntVar(&in.TaxonomyID, "taxonomy", 0, "Etsy taxonomy id (default 1125)")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "Etsy tags")
	cmd.Flags().StringArrayVar(&in.Images, "image", nil, "image URL or local path (repeatable)")

	return cmd
}

func draftsBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Create drafts from a YAML or JSON file",
		Long: "Create several drafts in order. The file holds a list of drafts with\n" +
			"the same fields as the API request body.",
		Example: `  amctl drafts batch drafts.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			drafts, err := readDrafts(args[0])
			if err != nil {
				return err
			}
			c := newClient()
			res, err := c.CreateDrafts(context.Background(), drafts)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			for _, r := range res.Results {
				if r.Error != "" {
					fmt.Fprintf(stdout, "FAILED  %s: %s\n", r.Title, r.Error)
					continue
				}
				fmt.Fprintf(stdout, "CREATED %s: %s\n", r.Title, r.Draft.ListingID)
			}
			fmt.Fprintf(stdout, "%d created, %d failed.\n", res.Created, res.Failed)
			return nil
		},
	}
}

// draftFile is one entry of a batch file.
type draftFile struct {
	ShopID      string   `yaml:"shop_id"`
	SKU         string   `yaml:"sku"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	TaxonomyID  int      `yaml:"taxonomy_id"`
	Tags        []string `yaml:"tags"`
	WhoMade     string   `yaml:"who_made"`
	WhenMade    string   `yaml:"when_made"`
	IsSupply    bool     `yaml:"is_supply"`
	Images      []string `yaml:"images"`
}

func readDrafts(path string) ([]apiclient.DraftInput, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading drafts file: %w", err)
	}

	var entries []draftFile
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing drafts file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no drafts in %s", path)
	}

	out := make([]apiclient.DraftInput, len(entries))
	for i, e := range entries {
		out[i] = apiclient.DraftInput(e)
	}
	return out, nil
}

func draftsListCmd() *cobra.Command {
	var f apiclient.ListingFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded listings",
		Example: `  amctl drafts list
  amctl drafts list --shop 12345678 --status draft --limit 20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			page, err := c.ListDrafts(context.Background(), f)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Listings) == 0 {
				fmt.Fprintln(stdout, "No listings found.")
				return nil
			}
			if err := printListingTable(page.Listings); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\nShowing %d of %d listings.\n", len(page.Listings), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.ShopID, "shop", "", "filter by shop")
	cmd.Flags().StringVar(&f.SKU, "sku", "", "filter by product SKU")
	cmd.Flags().StringVar(&f.Status, "status", "", "filter by status (draft, active, inactive)")
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "max results")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "results to skip")

	return cmd
}

func draftsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <listing_id>",
		Short:   "Show a recorded listing",
		Example: `  amctl drafts get 1234567890`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			l, err := c.GetDraft(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(l)
			}
			return printListingDetail(l)
		},
	}
}

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Update listings on Etsy",
	}

	listingsRoot.AddCommand(
		listingsPriceCmd(),
		listingsImagesCmd(),
	)

	return listingsRoot
}

func listingsPriceCmd() *cobra.Command {
	var shopID string

	cmd := &cobra.Command{
		Use:     "price <listing_id> <price>",
		Short:   "Set a listing's price",
		Example: `  amctl listings price 1234567890 14.99`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			var price float64
			if _, err := fmt.Sscanf(args[1], "%f", &price); err != nil || price <= 0 {
				return fmt.Errorf("invalid price %q", args[1])
			}
			c := newClient()
			if err := c.UpdateListingPrice(context.Background(), args[0], shopID, price); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Listing %s price set to $%.2f.\n", args[0], price)
			return nil
		},
	}
	cmd.Flags().StringVar(&shopID, "shop", "", "shop owning the listing")

	return cmd
}

func listingsImagesCmd() *cobra.Command {
	var shopID string

	cmd := &cobra.Command{
		Use:     "images <listing_id> <image>...",
		Short:   "Upload images to a listing",
		Example: `  amctl listings images 1234567890 ./front.png https://example.com/back.png`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			res, err := c.UploadListingImages(context.Background(), args[0], shopID, args[1:])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Fprintf(stdout, "%d image(s) uploaded to listing %s.\n", res.Uploaded, res.ListingID)
			for _, f := range res.Failed {
				fmt.Fprintf(stdout, "failed: %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shopID, "shop", "", "shop owning the listing")

	return cmd
}
