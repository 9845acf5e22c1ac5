// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carbonlab/chemresolve/internal/catalog"
)

var loadCmd = &cobra.Command{
	Use:   "load <data-dir>",
	Short: "Bulk-import a NEXAFS measurement tree into the catalog",
	Long: `Load walks a measurement directory laid out as
molecule/<edge>/<angle>deg.txt, creates a catalog entry per molecule
directory, and registers each data file as a measurement. The edge
directory's first letter names the absorption edge (carbon -> C-K) and
the two characters before "deg" in the filename give the incidence
angle. Already-registered measurements are skipped, so re-running after
adding files is safe. Directories named "Energy Calibration" are
ignored.`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one measurement directory")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := catalog.LoadExperiments(context.Background(), store, args[0], os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d compounds, %d measurements loaded, %d skipped\n",
		summary.Compounds, summary.Loaded, summary.Skipped)
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed loading", summary.Failed)
	}
	return nil
}
