// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/carbonlab/chemresolve/pkg/types"
)

// ExportEntry holds one compound with its experiments for export.
type ExportEntry struct {
	ID          string             `json:"id" yaml:"id"`
	Compound    types.Compound     `json:"compound" yaml:"compound"`
	Experiments []types.Experiment `json:"experiments,omitempty" yaml:"experiments,omitempty"`
}

// ExportYAML writes the whole catalog to catalogDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the whole catalog to catalogDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.json"), data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM compounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing compounds: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating compounds: %w", err)
	}

	entries := make([]ExportEntry, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCompound(ctx, id)
		if err != nil {
			return nil, err
		}
		exps, err := s.ListExperiments(ctx, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{ID: id, Compound: *c, Experiments: exps})
	}
	return entries, nil
}
