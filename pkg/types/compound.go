// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// Compound is the draft record of a chemical entity being contributed or
// edited. Identity fields start empty and are filled in by resolution;
// Synonyms never contains the empty string or exact duplicates.
type Compound struct {
	// IUPACName is the systematic name.
	IUPACName string `json:"iupac_name" yaml:"iupac_name"`

	// CommonName is the preferred human name, normally user-entered.
	CommonName string `json:"common_name" yaml:"common_name"`

	// Synonyms lists alternative names in insertion order.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// SMILES is the line-notation structure string.
	SMILES string `json:"smiles,omitempty" yaml:"smiles,omitempty"`

	// InChI is the International Chemical Identifier string.
	InChI string `json:"inchi,omitempty" yaml:"inchi,omitempty"`

	// ChemicalFormula is the molecular formula (e.g. "C9H8O4").
	ChemicalFormula string `json:"chemical_formula,omitempty" yaml:"chemical_formula,omitempty"`

	// CASNumber is the CAS Registry Number (e.g. "50-78-2"), if known.
	CASNumber string `json:"cas_number,omitempty" yaml:"cas_number,omitempty"`

	// PubChemCID is the PubChem Compound Identifier, if known.
	PubChemCID string `json:"pubchem_cid,omitempty" yaml:"pubchem_cid,omitempty"`

	// ImageURL points at a rendered structure image, if known.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// IsEmpty reports whether no identity field has been filled in.
func (c Compound) IsEmpty() bool {
	return c.IUPACName == "" && c.CommonName == "" && len(c.Synonyms) == 0 &&
		c.SMILES == "" && c.InChI == "" && c.ChemicalFormula == "" &&
		c.CASNumber == "" && c.PubChemCID == "" && c.ImageURL == ""
}

// AddSynonym appends name to Synonyms unless it is empty or already present.
// Comparison is exact (case-sensitive) after trimming.
func (c *Compound) AddSynonym(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, s := range c.Synonyms {
		if s == name {
			return
		}
	}
	c.Synonyms = append(c.Synonyms, name)
}

// Experiment records one X-ray absorption measurement for a compound:
// the absorption edge, the beam incidence angle, and the raw data file.
type Experiment struct {
	// ID is assigned by the catalog store.
	ID int64 `json:"id" yaml:"id"`

	// CompoundID references the catalog compound the measurement belongs to.
	CompoundID string `json:"compound_id" yaml:"compound_id"`

	// Edge is the absorption edge label (e.g. "C-K", "N-K", "O-K").
	Edge string `json:"edge" yaml:"edge"`

	// Angle is the beam incidence angle in degrees.
	Angle float64 `json:"angle" yaml:"angle"`

	// DataPath is the path to the raw measurement file.
	DataPath string `json:"data_path" yaml:"data_path"`

	// LoadedAt is when the measurement was imported.
	LoadedAt time.Time `json:"loaded_at" yaml:"loaded_at"`
}
