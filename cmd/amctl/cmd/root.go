// Package cmd implements the amctl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "amctl",
		Short: "CLI client for automerch",
		Long: "amctl is a command-line client for the automerch API.\n" +
			"It lets you manage shops and products, create Etsy drafts,\n" +
			"update listings, and run background jobs from the terminal.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.amctl.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		Duration("timeout", 0, "request timeout (default 2m)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout")))

	rootCmd.AddCommand(shopsCmd())
	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(draftsCmd())
	rootCmd.AddCommand(listingsCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(quotaCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".amctl")
	}

	viper.SetEnvPrefix("AMCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	var opts []apiclient.Option
	if d := viper.GetDuration("timeout"); d > 0 {
		opts = append(opts, apiclient.WithTimeout(d))
	}
	return apiclient.New(viper.GetString("server"), opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
