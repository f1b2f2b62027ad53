// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GabrielG71/nf-automate/internal/parse"
	"github.com/GabrielG71/nf-automate/internal/registry"
	"github.com/GabrielG71/nf-automate/internal/store"
)

var cnpjCmd = &cobra.Command{
	Use:   "cnpj [number]",
	Short: "Validate a CNPJ and look up its registration data",
	Long: `Cnpj checks the given number against the official check-digit
algorithm and, when valid, resolves the registered company name through
the CNPJ registry. Cached answers are served from the local database.`,
	Args: cobra.ExactArgs(1),
	RunE: runCnpj,
}

func init() {
	cnpjCmd.Flags().Bool("no-lookup", false, "validate only, skip the registry lookup")

	rootCmd.AddCommand(cnpjCmd)
}

func runCnpj(cmd *cobra.Command, args []string) error {
	clean := parse.CleanCNPJ(args[0])
	if !parse.ValidCNPJ(clean) {
		return fmt.Errorf("invalid CNPJ %q", args[0])
	}
	fmt.Printf("CNPJ:  %s\n", parse.FormatCNPJ(clean))

	if noLookup, _ := cmd.Flags().GetBool("no-lookup"); noLookup {
		return nil
	}

	regCfg := registryConfig()
	st, err := store.NewStore(storeConfig(cmd), regCfg.CacheTTL)
	if err != nil {
		return err
	}
	defer st.Close()

	client := registry.NewClient(regCfg, st)
	name, err := client.CompanyName(context.Background(), clean)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Println("Razão social: (não encontrada no registro)")
		return nil
	}
	fmt.Printf("Razão social: %s\n", name)
	return nil
}
