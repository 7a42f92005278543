package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	jobsRoot := &cobra.Command{
		Use:   "jobs",
		Short: "Run background jobs and view their history",
		Long: "Run the background jobs (token_refresh, sync_prices, sync_inventory,\n" +
			"list_to_etsy) on demand and view the run log.",
	}

	jobsRoot.AddCommand(
		jobsListCmd(),
		jobsRunCmd(),
		jobsHistoryCmd(),
	)

	return jobsRoot
}

func jobsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs and their next scheduled run",
		Example: `  amctl jobs list
  amctl jobs list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			jobs, err := c.ListJobs(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(jobs)
			}
			return printJobTable(jobs)
		},
	}
}

func jobsRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "run <job>",
		Short:   "Run a job now",
		Example: `  amctl jobs run sync_prices`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			res, err := c.RunJob(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			mode := ""
			if res.DryRun {
				mode = " (dry run)"
			}
			fmt.Fprintf(stdout, "%s%s: examined %d, changed %d, errors %d\n",
				res.Job, mode, res.Examined, res.Changed, res.Errors)
			return nil
		},
	}
}

func jobsHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [job]",
		Short: "Show the run log, optionally for one job",
		Args:  cobra.MaximumNArgs(1),
		Example: `  amctl jobs history
  amctl jobs history token_refresh --limit 10`,
		RunE: func(_ *cobra.Command, args []string) error {
			job := ""
			if len(args) == 1 {
				job = args[0]
			}
			c := newClient()
			runs, err := c.ListRuns(context.Background(), job, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(stdout, "No runs found.")
				return nil
			}
			return printRunLogTable(runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs")

	return cmd
}

func authCmd() *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Manage Etsy OAuth tokens",
		Long: "Connect a shop by opening <server>/auth/etsy/login in a browser.\n" +
			"These commands manage the tokens once a shop is connected.",
	}

	var shopID string
	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Force a token refresh",
		Example: `  amctl auth refresh
  amctl auth refresh --shop 12345678`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.RefreshToken(context.Background(), shopID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			shop := res.ShopID
			if shop == "" {
				shop = "legacy token"
			}
			if !res.Refreshed {
				fmt.Fprintf(stdout, "%s: token not refreshed.\n", shop)
				return nil
			}
			fmt.Fprintf(stdout, "%s: token refreshed", shop)
			if res.ExpiresAt != nil {
				fmt.Fprintf(stdout, ", expires %s", res.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintln(stdout, ".")
			return nil
		},
	}
	refresh.Flags().StringVar(&shopID, "shop", "", "shop whose token is refreshed")

	authRoot.AddCommand(refresh)
	return authRoot
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show daily API call budgets",
		Example: `  amctl quota
  amctl quota --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			quota, err := c.GetQuota(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(quota)
			}
			if len(quota) == 0 {
				fmt.Fprintln(stdout, "No provider clients in use yet.")
				return nil
			}
			return printQuotaTable(quota)
		},
	}
}
