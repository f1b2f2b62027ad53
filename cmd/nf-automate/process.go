// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GabrielG71/nf-automate/internal/pdftext"
	"github.com/GabrielG71/nf-automate/internal/process"
	"github.com/GabrielG71/nf-automate/internal/registry"
	"github.com/GabrielG71/nf-automate/internal/store"
	"github.com/GabrielG71/nf-automate/pkg/types"
)

const (
	defaultRegistryTimeout = 20 * time.Second
	defaultLookupDelay     = 300 * time.Millisecond
	defaultCacheTTL        = 30 * 24 * time.Hour
)

var processCmd = &cobra.Command{
	Use:   "process [pdfs...]",
	Short: "Extract invoice rows from NF-e PDFs into the local store",
	Long: `Process extracts the text layer of each NF-e PDF, parses the invoice
number, emission date, CNPJs, and material line items, resolves company
names through the CNPJ registry, and stores the rows in the local
database. Successfully processed PDFs are moved to the processed
directory with a YAML metadata sidecar.

With --batch, every PDF in the inbox directory is processed.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Bool("batch", false, "process every PDF in the inbox directory")
	processCmd.Flags().String("inbox", "", "inbox directory (default \"inbox\")")
	processCmd.Flags().String("processed", "", "processed directory (default \"processed\")")
	processCmd.Flags().Bool("force", false, "reprocess PDFs already in the store")
	processCmd.Flags().Bool("keep", false, "leave PDFs in the inbox after processing")
	processCmd.Flags().Bool("no-lookup", false, "skip CNPJ registry lookups")

	rootCmd.AddCommand(processCmd)
}

// processConfig builds the processing stage config from the directory
// flags shared by process and watch, with viper fallbacks for values set
// in the config file. Flags owned by a single command (force, keep) are
// read by that command's run function.
func processConfig(cmd *cobra.Command) types.ProcessConfig {
	inbox, _ := cmd.Flags().GetString("inbox")
	if inbox == "" {
		inbox = stringOr(viper.GetString("process.inbox_dir"), "inbox")
	}
	processed, _ := cmd.Flags().GetString("processed")
	if processed == "" {
		processed = stringOr(viper.GetString("process.processed_dir"), "processed")
	}

	return types.ProcessConfig{
		InboxDir:     inbox,
		ProcessedDir: processed,
	}
}

// registryConfig builds the CNPJ registry config from the config file and
// loaded secrets.
func registryConfig() types.RegistryConfig {
	return types.RegistryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationOr(viper.GetDuration("registry.timeout"), defaultRegistryTimeout),
			UserAgent: defaultUserAgent,
		},
		BaseURL:     viper.GetString("registry.base_url"),
		LookupDelay: durationOr(viper.GetDuration("registry.lookup_delay"), defaultLookupDelay),
		CacheTTL:    durationOr(viper.GetDuration("registry.cache_ttl"), defaultCacheTTL),
		Token:       secretDefault("brasilapi-token", viper.GetString("registry.token")),
		Disabled:    viper.GetBool("registry.disabled"),
	}
}

// storeConfig resolves the data directory from the persistent flag and the
// config file.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if !cmd.Flags().Changed("data-dir") {
		dataDir = stringOr(viper.GetString("store.data_dir"), dataDir)
	}
	return types.StoreConfig{DataDir: dataDir}
}

func runProcess(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetBool("batch")
	procCfg := processConfig(cmd)
	procCfg.Force, _ = cmd.Flags().GetBool("force")
	procCfg.KeepInInbox, _ = cmd.Flags().GetBool("keep")
	regCfg := registryConfig()
	storeCfg := storeConfig(cmd)
	if noLookup, _ := cmd.Flags().GetBool("no-lookup"); noLookup {
		regCfg.Disabled = true
	}

	paths := args
	if batch {
		inboxPaths, err := process.InboxPDFs(procCfg.InboxDir)
		if err != nil {
			return err
		}
		paths = append(paths, inboxPaths...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDFs to process: pass file paths or use --batch with a populated inbox")
	}

	st, err := store.NewStore(storeCfg, regCfg.CacheTTL)
	if err != nil {
		return err
	}
	defer st.Close()

	var enricher process.Enricher
	if !regCfg.Disabled {
		enricher = registry.NewClient(regCfg, st)
	}

	result := process.ProcessBatch(context.Background(), pdftext.New(), enricher, st, paths, procCfg, os.Stdout, os.Stderr)
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed processing", result.Failed)
	}
	return nil
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
