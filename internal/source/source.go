// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source provides lookup adapters for the identifier sources the
// resolution engine queries: the local catalog, PubChem, and the CAS
// registry. Adapters translate transport and decode failures into ordinary
// errors and report absence with ErrNotFound; none of them retries a miss
// internally.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbonlab/chemresolve/pkg/types"
)

// ErrNotFound reports that a source has no entry for the query. It is an
// expected outcome, not a fault.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is an expected miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidationError reports that no usable search term could be derived from
// the input. It is surfaced to the user before any adapter is called.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Record is a compound record returned by PubChem.
type Record struct {
	IUPACName       string
	CommonName      string
	Synonyms        []string
	SMILES          string
	InChI           string
	ChemicalFormula string
	CASNumber       string
	CID             string
	ImageURL        string
}

// CASRecord is the result of a CAS registry lookup.
type CASRecord struct {
	RegistryNumber string
	Name           string
	InChI          string
	SMILES         string
}

// CatalogMatch is a hit against the persisted compound catalog.
type CatalogMatch struct {
	// ID is the catalog identifier of the matched compound.
	ID string

	// Compound holds the stored record.
	Compound types.Compound
}

// QueryKind selects the PubChem lookup endpoint.
type QueryKind string

const (
	ByName   QueryKind = "name"
	ByCID    QueryKind = "cid"
	BySMILES QueryKind = "smiles"
)

// Selector identifies exactly one CAS lookup key. The zero value is invalid.
type Selector struct {
	InChI     string
	Synonym   string
	CASNumber string
}

func (s Selector) validate() error {
	n := 0
	for _, v := range []string{s.InChI, s.Synonym, s.CASNumber} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("selector must set exactly one of InChI, Synonym, CASNumber")
	}
	return nil
}

// DatabaseSearcher matches free text against the persisted catalog.
type DatabaseSearcher interface {
	// SearchCompound returns the best catalog match for the query or
	// ErrNotFound. Absence is a normal, non-error outcome for callers.
	SearchCompound(ctx context.Context, query string) (*CatalogMatch, error)
}

// PubChemSearcher looks up compound records in PubChem.
type PubChemSearcher interface {
	Search(ctx context.Context, query string, kind QueryKind) (*Record, error)
}

// CASSearcher looks up CAS registry records by InChI, synonym, or number.
type CASSearcher interface {
	Search(ctx context.Context, sel Selector) (*CASRecord, error)
}
