// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GabrielG71/nf-automate/internal/pdftext"
	"github.com/GabrielG71/nf-automate/internal/process"
	"github.com/GabrielG71/nf-automate/internal/registry"
	"github.com/GabrielG71/nf-automate/internal/store"
)

const defaultSchedule = "@every 5m"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process the inbox on a schedule",
	Long: `Watch runs the processing stage over the inbox directory on a cron
schedule until interrupted. Each run picks up newly dropped PDFs; files
already processed are skipped through the store.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("schedule", "", "cron schedule (default \"@every 5m\")")
	watchCmd.Flags().String("inbox", "", "inbox directory (default \"inbox\")")
	watchCmd.Flags().String("processed", "", "processed directory (default \"processed\")")
	watchCmd.Flags().Bool("no-lookup", false, "skip CNPJ registry lookups")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	schedule, _ := cmd.Flags().GetString("schedule")
	if schedule == "" {
		schedule = stringOr(viper.GetString("watch.schedule"), defaultSchedule)
	}

	procCfg := processConfig(cmd)
	regCfg := registryConfig()
	if noLookup, _ := cmd.Flags().GetBool("no-lookup"); noLookup {
		regCfg.Disabled = true
	}

	st, err := store.NewStore(storeConfig(cmd), regCfg.CacheTTL)
	if err != nil {
		return err
	}
	defer st.Close()

	var enricher process.Enricher
	if !regCfg.Disabled {
		enricher = registry.NewClient(regCfg, st)
	}
	extractor := pdftext.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func() {
		paths, err := process.InboxPDFs(procCfg.InboxDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
			return
		}
		if len(paths) == 0 {
			return
		}
		process.ProcessBatch(ctx, extractor, enricher, st, paths, procCfg, os.Stdout, os.Stderr)
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	fmt.Printf("Watching %s (%s); Ctrl-C to stop\n", procCfg.InboxDir, schedule)
	run() // immediate first pass, then the cron cadence
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
