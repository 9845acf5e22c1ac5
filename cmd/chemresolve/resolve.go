// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carbonlab/chemresolve/internal/resolve"
	"github.com/carbonlab/chemresolve/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [descriptor]",
	Short: "Resolve a partial compound descriptor into a complete record",
	Long: `Resolve takes whatever is known about a compound (a common name, a
PubChem CID, a CAS Registry Number, a SMILES string, or an InChI) and
fills in the rest by consulting the local catalog, then PubChem, then
the CAS Common Chemistry registry.

A bare positional descriptor is classified by shape: all digits is a
CID, NNNNN-NN-N is a CAS number, InChI= prefixed strings are InChI,
strings of bond and branch characters are SMILES, and anything else is
a common name. Explicit flags override classification.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("name", "", "common name of the compound")
	resolveCmd.Flags().String("cid", "", "PubChem compound ID")
	resolveCmd.Flags().String("cas", "", "CAS Registry Number")
	resolveCmd.Flags().String("smiles", "", "SMILES structure string")
	resolveCmd.Flags().String("inchi", "", "InChI structure string")
	resolveCmd.Flags().String("synonyms", "", "known synonyms (comma-separated)")
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	resolveCmd.Flags().Bool("json", false, "output the outcome as JSON")
	resolveCmd.Flags().Bool("verbose", false, "log each resolution step")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	rec, err := seedRecord(cmd, args)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	pubchem, cas := buildSources(timeout)

	var log *zap.Logger
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	resolver := resolve.NewResolver(store, pubchem, cas, types.ResolveConfig{}.WithDefaults(), log)
	out, err := resolver.Resolve(context.Background(), &rec, resolve.TriggerSearch)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printOutcome(out)
	return nil
}

// seedRecord builds the starting record from flags and the positional
// descriptor. Flags win over descriptor classification.
func seedRecord(cmd *cobra.Command, args []string) (types.Compound, error) {
	var rec types.Compound
	if len(args) > 0 {
		rec = resolve.Seed(strings.Join(args, " "))
	}

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		rec.CommonName = name
	}
	if cid, _ := cmd.Flags().GetString("cid"); cid != "" {
		rec.PubChemCID = cid
	}
	if cas, _ := cmd.Flags().GetString("cas"); cas != "" {
		rec.CASNumber = cas
	}
	if smiles, _ := cmd.Flags().GetString("smiles"); smiles != "" {
		rec.SMILES = smiles
	}
	if inchi, _ := cmd.Flags().GetString("inchi"); inchi != "" {
		rec.InChI = inchi
	}
	if synonyms, _ := cmd.Flags().GetString("synonyms"); synonyms != "" {
		for _, syn := range strings.Split(synonyms, ",") {
			rec.AddSynonym(syn)
		}
	}

	if rec.IsEmpty() {
		return rec, fmt.Errorf("provide a descriptor argument or at least one of --name, --cid, --cas, --smiles, --inchi")
	}
	return rec, nil
}

func printOutcome(out resolve.Outcome) {
	fmt.Println(out.Message)
	for _, w := range out.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Println()

	rows := []struct{ label, value string }{
		{"Common name", out.Record.CommonName},
		{"IUPAC name", out.Record.IUPACName},
		{"PubChem CID", out.Record.PubChemCID},
		{"CAS number", out.Record.CASNumber},
		{"Formula", out.Record.ChemicalFormula},
		{"SMILES", out.Record.SMILES},
		{"InChI", out.Record.InChI},
		{"Synonyms", strings.Join(out.Record.Synonyms, "; ")},
		{"Image", out.Record.ImageURL},
		{"PubChem URL", out.PubChemURL},
		{"Catalog ID", out.MatchedID},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Printf("%-12s  %s\n", row.label, row.value)
	}
}
