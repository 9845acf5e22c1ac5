// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/carbonlab/chemresolve/internal/httputil"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// casCommonChemBase is the CAS Common Chemistry API root. Declared as a var
// so tests can substitute an httptest server.
var casCommonChemBase = "https://commonchemistry.cas.org/api"

// CASClient queries the CAS Common Chemistry API. Search by InChI or synonym
// goes through /search; the registry number from the best hit (or a direct
// CASNumber selector) is then expanded through /detail for structure fields.
type CASClient struct {
	Client *http.Client
	Config types.CASConfig
}

// Search looks up a registry record by exactly one selector key. An empty
// result set maps to ErrNotFound.
func (c *CASClient) Search(ctx context.Context, sel Selector) (*CASRecord, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	rn := sel.CASNumber
	if rn == "" {
		query := sel.InChI
		if query == "" {
			query = sel.Synonym
		}

		searchURL := casCommonChemBase + "/search?q=" + url.QueryEscape(query)
		var sr casSearchResponse
		if err := c.getJSON(ctx, searchURL, &sr); err != nil {
			return nil, err
		}
		if sr.Count == 0 || len(sr.Results) == 0 || sr.Results[0].RN == "" {
			return nil, fmt.Errorf("CAS registry %q: %w", query, ErrNotFound)
		}
		rn = sr.Results[0].RN
	}

	detailURL := casCommonChemBase + "/detail?cas_rn=" + url.QueryEscape(rn)
	var dr casDetailResponse
	if err := c.getJSON(ctx, detailURL, &dr); err != nil {
		return nil, err
	}
	if dr.RN == "" {
		return nil, fmt.Errorf("CAS registry %q: %w", rn, ErrNotFound)
	}

	smiles := dr.CanonicalSmile
	if smiles == "" {
		smiles = dr.Smile
	}
	return &CASRecord{
		RegistryNumber: dr.RN,
		Name:           dr.Name,
		InChI:          dr.InChI,
		SMILES:         smiles,
	}, nil
}

func (c *CASClient) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.APIKey != "" {
		req.Header.Set("X-API-KEY", c.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return fmt.Errorf("CAS request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("CAS: %w", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("CAS returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing CAS response: %w", err)
	}
	return nil
}

// CAS Common Chemistry JSON structures.
type casSearchResponse struct {
	Count   int `json:"count"`
	Results []struct {
		RN   string `json:"rn"`
		Name string `json:"name"`
	} `json:"results"`
}

type casDetailResponse struct {
	RN             string `json:"rn"`
	Name           string `json:"name"`
	InChI          string `json:"inchi"`
	Smile          string `json:"smile"`
	CanonicalSmile string `json:"canonicalSmile"`
}
