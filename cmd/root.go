package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/graphtools/graphtools/internal/logs"
	"github.com/graphtools/graphtools/internal/message"
	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool
	timeout time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graphtools",
	Short: "Graphtools reports on and remediates Microsoft Entra ID tenants through Microsoft Graph.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quiet)
		message.SetNoColor(noColor)
		logs.ConsoleLogger(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graphtools.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "directory for file output")
	rootCmd.PersistentFlags().StringP("format", "f", "json", "file output format (json, csv, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational messages")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", graph.DefaultTimeout, "per Graph call timeout")
	rootCmd.PersistentFlags().String("tenant-id", "", "Entra tenant id (app-only auth)")
	rootCmd.PersistentFlags().String("client-id", "", "app registration client id (app-only auth)")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("tenant-id", rootCmd.PersistentFlags().Lookup("tenant-id"))
	viper.BindPFlag("client-id", rootCmd.PersistentFlags().Lookup("client-id"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".graphtools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".graphtools")
	}

	viper.SetEnvPrefix("GRAPHTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newGraphClient builds the Graph client from flags, config file, and
// GRAPHTOOLS_* environment variables.
func newGraphClient() (*graph.Client, error) {
	return graph.NewClient(graph.Config{
		TenantID:     viper.GetString("tenant-id"),
		ClientID:     viper.GetString("client-id"),
		ClientSecret: viper.GetString("client-secret"),
		Timeout:      timeout,
	})
}

// writeResults renders rows on the console and, when --output is set, through
// the file provider selected by --format.
func writeResults(name string, rows []outputproviders.TabularRecord) error {
	console := &outputproviders.ConsoleProvider{}
	if err := console.Write(name, rows); err != nil {
		return err
	}

	outputPath := viper.GetString("output")
	if outputPath == "" || len(rows) == 0 {
		return nil
	}
	provider, err := outputproviders.ForFormat(viper.GetString("format"), outputPath)
	if err != nil {
		return err
	}
	return provider.Write(name, rows)
}
