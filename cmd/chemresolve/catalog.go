// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carbonlab/chemresolve/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local compound catalog (search, show, save, export)",
	Long: `Catalog manages the local SQLite compound database. Use subcommands to
search it by name, inspect a single compound with its measurements, save
a record, or export the whole catalog.`,
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by name, IUPAC name, or synonym",
	Long: `Search matches the query against common names, IUPAC names, and
synonyms. Exact case-insensitive matches rank first, then full-text
prefix matches.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	matches, err := store.Query(context.Background(), query, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Println("No compounds found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-24s  %-30s  %-12s  %s\n", "ID", "Common Name", "CAS", "Formula")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-24s  %-30s  %-12s  %s\n",
			m.ID, m.Compound.CommonName, m.Compound.CASNumber, m.Compound.ChemicalFormula)
	}
	fmt.Fprintf(os.Stdout, "\n%d compounds\n", len(matches))
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one compound and its measurements",
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one catalog ID")
	}
	id := args[0]

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	c, err := store.GetCompound(ctx, id)
	if err != nil {
		return err
	}
	exps, err := store.ListExperiments(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"id": id, "compound": c, "experiments": exps})
	}

	fmt.Printf("%s (%s)\n", c.CommonName, id)
	if c.IUPACName != "" {
		fmt.Printf("  IUPAC:    %s\n", c.IUPACName)
	}
	if c.ChemicalFormula != "" {
		fmt.Printf("  Formula:  %s\n", c.ChemicalFormula)
	}
	if c.CASNumber != "" {
		fmt.Printf("  CAS:      %s\n", c.CASNumber)
	}
	if c.PubChemCID != "" {
		fmt.Printf("  CID:      %s\n", c.PubChemCID)
	}
	if c.SMILES != "" {
		fmt.Printf("  SMILES:   %s\n", c.SMILES)
	}
	if len(c.Synonyms) > 0 {
		fmt.Printf("  Synonyms: %s\n", strings.Join(c.Synonyms, "; "))
	}
	if len(exps) > 0 {
		fmt.Printf("  Measurements (%d):\n", len(exps))
		for _, e := range exps {
			fmt.Printf("    %-6s %5.1f°  %s\n", e.Edge, e.Angle, e.DataPath)
		}
	}
	return nil
}

// --- save subcommand ---

var catalogSaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save a compound record from a JSON file or stdin",
	Long: `Save upserts one compound record. The record is read as JSON from the
given file, or from stdin when no file is given. An existing --id keeps
the compound's catalog ID; otherwise one is derived from the name.`,
	RunE: runCatalogSave,
}

func runCatalogSave(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var c types.Compound
	if err := json.NewDecoder(in).Decode(&c); err != nil {
		return fmt.Errorf("decoding compound record: %w", err)
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	id, _ := cmd.Flags().GetString("id")
	id, err = store.SaveCompound(context.Background(), id, c)
	if err != nil {
		return err
	}
	fmt.Printf("Saved compound %s\n", id)
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", catalogDir)
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", catalogDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

func init() {
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogShowCmd.Flags().Bool("json", false, "output the compound as JSON")

	catalogSaveCmd.Flags().String("id", "", "catalog ID to save under (default: derived from name)")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSaveCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
