// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// applyTrusted replaces every identity field on the record with the catalog
// match. A catalog hit means this exact entity already exists, so the draft
// becomes an edit of the stored record.
func applyTrusted(rec *types.Compound, m *source.CatalogMatch) {
	rec.IUPACName = m.Compound.IUPACName
	rec.CommonName = m.Compound.CommonName
	rec.Synonyms = append([]string(nil), m.Compound.Synonyms...)
	rec.SMILES = m.Compound.SMILES
	rec.InChI = m.Compound.InChI
	rec.ChemicalFormula = m.Compound.ChemicalFormula
	rec.CASNumber = m.Compound.CASNumber
	rec.PubChemCID = m.Compound.PubChemCID
	rec.ImageURL = m.Compound.ImageURL
}

// applyFillMissing merges a PubChem record into the draft, taking a source
// value only where the draft's field is still empty. The common name keeps
// the user's entry when non-empty. Synonyms are unioned, never replaced.
func applyFillMissing(rec *types.Compound, src *source.Record) {
	if rec.IUPACName == "" {
		rec.IUPACName = src.IUPACName
	}
	if rec.CommonName == "" {
		rec.CommonName = src.CommonName
	}
	if rec.SMILES == "" {
		rec.SMILES = src.SMILES
	}
	if rec.InChI == "" {
		rec.InChI = src.InChI
	}
	if rec.ChemicalFormula == "" {
		rec.ChemicalFormula = src.ChemicalFormula
	}
	if rec.CASNumber == "" {
		rec.CASNumber = src.CASNumber
	}
	if rec.PubChemCID == "" {
		rec.PubChemCID = src.CID
	}
	if rec.ImageURL == "" {
		rec.ImageURL = src.ImageURL
	}
	for _, syn := range src.Synonyms {
		rec.AddSynonym(syn)
	}
}

// backfillStructure fills SMILES and InChI from a CAS record where the
// draft still lacks them. User-typed values are never overwritten.
func backfillStructure(rec *types.Compound, cas *source.CASRecord) {
	if rec.SMILES == "" {
		rec.SMILES = cas.SMILES
	}
	if rec.InChI == "" {
		rec.InChI = cas.InChI
	}
}
