// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/carbonlab/chemresolve/internal/httputil"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// PubChem PUG REST endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubChemRESTBase  = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	pubChemImageBase = "https://pubchem.ncbi.nlm.nih.gov/image/imgsrv.fcgi"
)

// pubChemProperties lists the compound properties requested per lookup.
const pubChemProperties = "IUPACName,Title,CanonicalSMILES,InChI,MolecularFormula"

// casNumberPattern matches CAS Registry Numbers: "50-78-2", "7732-18-5".
var casNumberPattern = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)

// PubChemClient queries the PubChem PUG REST API.
type PubChemClient struct {
	Client *http.Client
	Config types.PubChemConfig
}

// Search looks up a compound by name, CID, or SMILES. A PUG REST "fault"
// (HTTP 404) maps to ErrNotFound. Synonym retrieval is best-effort: a
// compound is still returned when the synonym request fails.
func (c *PubChemClient) Search(ctx context.Context, query string, kind QueryKind) (*Record, error) {
	if query == "" {
		return nil, fmt.Errorf("empty PubChem query")
	}

	reqURL := fmt.Sprintf("%s/compound/%s/%s/property/%s/JSON",
		pubChemRESTBase, kind, url.PathEscape(query), pubChemProperties)

	var pr propertyResponse
	if err := c.getJSON(ctx, reqURL, &pr); err != nil {
		return nil, err
	}
	if len(pr.PropertyTable.Properties) == 0 {
		return nil, fmt.Errorf("compound %q: %w", query, ErrNotFound)
	}

	p := pr.PropertyTable.Properties[0]
	rec := &Record{
		IUPACName:       p.IUPACName,
		CommonName:      p.Title,
		SMILES:          p.CanonicalSMILES,
		InChI:           p.InChI,
		ChemicalFormula: p.MolecularFormula,
	}

	if p.CID > 0 {
		rec.CID = strconv.Itoa(p.CID)
		rec.ImageURL = fmt.Sprintf("%s?cid=%d&t=l", pubChemImageBase, p.CID)

		synURL := fmt.Sprintf("%s/compound/cid/%d/synonyms/JSON", pubChemRESTBase, p.CID)
		var sr synonymResponse
		if err := c.getJSON(ctx, synURL, &sr); err == nil && len(sr.InformationList.Information) > 0 {
			rec.Synonyms = sr.InformationList.Information[0].Synonym
		}
	}

	// PubChem has no CAS number field; registry numbers appear among the
	// synonyms. The first synonym in CAS format is taken as the number.
	for _, syn := range rec.Synonyms {
		if casNumberPattern.MatchString(syn) {
			rec.CASNumber = syn
			break
		}
	}

	return rec, nil
}

// CompoundURL returns the PubChem web page for a CID.
func CompoundURL(cid string) string {
	return "https://pubchem.ncbi.nlm.nih.gov/compound/" + url.PathEscape(cid)
}

func (c *PubChemClient) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.ContactEmail != "" {
		req.Header.Set("From", c.Config.ContactEmail)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return fmt.Errorf("PubChem request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("PubChem: %w", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PubChem returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing PubChem response: %w", err)
	}
	return nil
}

// PUG REST JSON structures.
type propertyResponse struct {
	PropertyTable struct {
		Properties []pubChemProperty `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubChemProperty struct {
	CID              int    `json:"CID"`
	Title            string `json:"Title"`
	IUPACName        string `json:"IUPACName"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
	InChI            string `json:"InChI"`
	MolecularFormula string `json:"MolecularFormula"`
}

type synonymResponse struct {
	InformationList struct {
		Information []struct {
			CID     int      `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}
