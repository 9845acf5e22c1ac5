// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// LoadSummary holds counts from a bulk experiment import run.
type LoadSummary struct {
	Compounds int
	Loaded    int
	Skipped   int
	Failed    int
}

// Total returns the number of data files processed.
func (s LoadSummary) Total() int {
	return s.Loaded + s.Skipped + s.Failed
}

// HasFailures reports whether any files failed to import.
func (s LoadSummary) HasFailures() bool {
	return s.Failed > 0
}

// calibrationDir is beamline calibration data, not a molecule.
const calibrationDir = "Energy Calibration"

// LoadExperiments walks a measurement data tree laid out as
// <root>/<molecule>/<edge>/<scan>.txt and registers every scan as an
// experiment. The edge directory's first letter names the absorption edge
// ("c" becomes "C-K"); the incidence angle is the two digits preceding
// "deg" in the filename. Molecules missing from the catalog are created
// with just their common name; re-imported scans are skipped.
func LoadExperiments(ctx context.Context, store *Store, root string, w io.Writer) (LoadSummary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("reading data directory %s: %w", root, err)
	}

	var summary LoadSummary
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == calibrationDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		molecule := entry.Name()
		id, err := findOrCreateCompound(ctx, store, molecule)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", molecule, err)
			summary.Failed++
			continue
		}
		summary.Compounds++

		if err := loadMolecule(ctx, store, filepath.Join(root, molecule), id, &summary, w); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func loadMolecule(ctx context.Context, store *Store, dir, compoundID string, summary *LoadSummary, w io.Writer) error {
	edges, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading molecule directory %s: %w", dir, err)
	}

	for _, edge := range edges {
		if !edge.IsDir() {
			continue
		}
		edgeLabel := strings.ToUpper(edge.Name()[:1]) + "-K"

		files, err := os.ReadDir(filepath.Join(dir, edge.Name()))
		if err != nil {
			return fmt.Errorf("reading edge directory: %w", err)
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".txt") {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			dataPath := filepath.Join(dir, edge.Name(), file.Name())
			angle, err := angleFromFilename(file.Name())
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", file.Name(), err)
				summary.Failed++
				continue
			}

			added, err := store.AddExperiment(ctx, types.Experiment{
				CompoundID: compoundID,
				Edge:       edgeLabel,
				Angle:      angle,
				DataPath:   dataPath,
			})
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", file.Name(), err)
				summary.Failed++
				continue
			}
			if added {
				fmt.Fprintf(w, "loaded  %s %s at %g degrees\n", filepath.Base(dir), edgeLabel, angle)
				summary.Loaded++
			} else {
				fmt.Fprintf(w, "skipped %s (already imported)\n", file.Name())
				summary.Skipped++
			}
		}
	}
	return nil
}

// angleFromFilename extracts the incidence angle from a scan filename like
// "STB_025_55deg_c.txt": the two digits immediately before "deg".
func angleFromFilename(name string) (float64, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	prefix, _, found := strings.Cut(stem, "deg")
	if !found || len(prefix) < 2 {
		return 0, fmt.Errorf("no angle in filename %q", name)
	}
	angle, err := strconv.ParseFloat(prefix[len(prefix)-2:], 64)
	if err != nil {
		return 0, fmt.Errorf("no angle in filename %q", name)
	}
	return angle, nil
}

func findOrCreateCompound(ctx context.Context, store *Store, name string) (string, error) {
	m, err := store.SearchCompound(ctx, name)
	if err == nil {
		return m.ID, nil
	}
	if !source.IsNotFound(err) {
		return "", err
	}
	return store.SaveCompound(ctx, "", types.Compound{CommonName: name})
}
