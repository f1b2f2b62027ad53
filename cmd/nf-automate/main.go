// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nf-automate CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GabrielG71/nf-automate/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "nf-automate/0.1"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the nf-automate CLI.
var rootCmd = &cobra.Command{
	Use:   "nf-automate",
	Short: "Extract NF-e invoice data from PDFs into spreadsheets",
	Long: `nf-automate processes Brazilian electronic invoices (NF-e) distributed
as PDF. It extracts the text layer, parses invoice metadata and line items,
validates CNPJs and resolves company names through the BrasilAPI registry,
keeps the rows in a local SQLite database, and exports XLSX or CSV
spreadsheets for bookkeeping.

Each pipeline stage is a subcommand: process, export, cnpj, and watch.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nf-automate.yaml or ~/.config/nf-automate/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding the invoice database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nf-automate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nf-automate"))
		}
	}

	viper.SetEnvPrefix("NF_AUTOMATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
