package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// stdout is where tables and JSON are written.
var stdout io.Writer = os.Stdout

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printShopTable(shops []domain.Shop) error {
	tw := newTabWriter(stdout)
	tw.writef("SHOP ID\tNAME\tACTIVE\tDEFAULT\tURL\n")
	for i := range shops {
		tw.writef("%s\t%s\t%v\t%v\t%s\n",
			shops[i].ShopID,
			shops[i].ShopName,
			shops[i].IsActive,
			shops[i].IsDefault,
			shops[i].ShopURL,
		)
	}
	return tw.finish()
}

func printShopDetail(s *domain.Shop) error {
	tw := newTabWriter(stdout)
	tw.writef("Shop ID:\t%s\n", s.ShopID)
	tw.writef("Name:\t%s\n", s.ShopName)
	tw.writef("Active:\t%v\n", s.IsActive)
	tw.writef("Default:\t%v\n", s.IsDefault)
	tw.writef("URL:\t%s\n", s.ShopURL)
	if s.Description != "" {
		tw.writef("Description:\t%s\n", s.Description)
	}
	return tw.finish()
}

func printProductTable(products []domain.Product) error {
	tw := newTabWriter(stdout)
	tw.writef("SKU\tNAME\tPRICE\tQTY\tPRINTFUL\tETSY LISTING\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			p.SKU,
			truncate(p.Name, 40),
			money(p.Price),
			intOrDash(p.Quantity),
			orDash(p.PrintfulVariantID),
			orDash(p.EtsyListingID),
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.Product) error {
	tw := newTabWriter(stdout)
	tw.writef("SKU:\t%s\n", p.SKU)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Price:\t%s\n", money(p.Price))
	tw.writef("Cost:\t%s\n", money(p.Cost))
	tw.writef("Quantity:\t%s\n", intOrDash(p.Quantity))
	tw.writef("Variant:\t%s\n", intOrDash(p.VariantID))
	tw.writef("Printful Variant:\t%s\n", orDash(p.PrintfulVariantID))
	tw.writef("Etsy Listing:\t%s\n", orDash(p.EtsyListingID))
	if len(p.Tags) > 0 {
		tw.writef("Tags:\t%v\n", p.Tags)
	}
	return tw.finish()
}

func printListingTable(listings []domain.Listing) error {
	tw := newTabWriter(stdout)
	tw.writef("LISTING ID\tSHOP\tSKU\tSTATUS\tPRICE\tTITLE\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ListingID,
			orDash(l.ShopID),
			orDash(l.SKU),
			l.Status,
			money(l.Price),
			truncate(l.Title, 40),
		)
	}
	return tw.finish()
}

func printListingDetail(l *domain.Listing) error {
	tw := newTabWriter(stdout)
	tw.writef("Listing ID:\t%s\n", l.ListingID)
	tw.writef("Shop:\t%s\n", orDash(l.ShopID))
	tw.writef("SKU:\t%s\n", orDash(l.SKU))
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Status:\t%s\n", l.Status)
	tw.writef("Price:\t%s\n", money(l.Price))
	tw.writef("URL:\t%s\n", l.EtsyURL)
	return tw.finish()
}

func printDraft(d *apiclient.Draft) error {
	tw := newTabWriter(stdout)
	tw.writef("Listing ID:\t%s\n", d.ListingID)
	tw.writef("Shop:\t%s\n", orDash(d.ShopID))
	tw.writef("Status:\t%s\n", d.Status)
	tw.writef("Price Set:\t%v\n", d.PriceSet)
	tw.writef("Images:\t%d\n", d.ImagesUploaded)
	tw.writef("URL:\t%s\n", d.EtsyURL)
	return tw.finish()
}

func printJobTable(jobs []apiclient.Job) error {
	tw := newTabWriter(stdout)
	tw.writef("JOB\tNEXT RUN\n")
	for i := range jobs {
		next := "-"
		if jobs[i].NextRun != nil {
			next = jobs[i].NextRun.Local().Format(time.DateTime)
		}
		tw.writef("%s\t%s\n", jobs[i].Name, next)
	}
	return tw.finish()
}

func printRunLogTable(runs []domain.RunLog) error {
	tw := newTabWriter(stdout)
	tw.writef("JOB\tSTATUS\tAT\tMESSAGE\n")
	for i := range runs {
		r := &runs[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			r.Job,
			r.Status,
			r.CreatedAt.Local().Format(time.DateTime),
			truncate(r.Message, 60),
		)
	}
	return tw.finish()
}

func printQuotaTable(quota []apiclient.Quota) error {
	tw := newTabWriter(stdout)
	tw.writef("CLIENT\tLIMIT\tUSED\tREMAINING\tRESETS\n")
	for i := range quota {
		q := &quota[i]
		limit, remaining := "unlimited", "unlimited"
		if q.DailyLimit > 0 {
			limit = fmt.Sprintf("%d", q.DailyLimit)
			remaining = fmt.Sprintf("%d", q.Remaining)
		}
		tw.writef("%s\t%s\t%d\t%s\t%s\n",
			q.Client,
			limit,
			q.DailyUsed,
			remaining,
			q.ResetAt.Local().Format(time.DateTime),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *p)
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
