// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carbonlab/chemresolve/pkg/types"
)

func testPubChemConfig() types.PubChemConfig {
	return types.PubChemConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
	}
}

// withPubChemServer points the adapter at an httptest server for the test.
func withPubChemServer(t *testing.T, handler http.Handler) *PubChemClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	oldREST, oldImage := pubChemRESTBase, pubChemImageBase
	pubChemRESTBase = ts.URL
	pubChemImageBase = ts.URL + "/image"
	t.Cleanup(func() {
		pubChemRESTBase = oldREST
		pubChemImageBase = oldImage
	})

	return &PubChemClient{Client: ts.Client(), Config: testPubChemConfig()}
}

const aspirinProperties = `{
	"PropertyTable": {
		"Properties": [{
			"CID": 2244,
			"Title": "Aspirin",
			"IUPACName": "2-acetyloxybenzoic acid",
			"CanonicalSMILES": "CC(=O)OC1=CC=CC=C1C(=O)O",
			"InChI": "InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)",
			"MolecularFormula": "C9H8O4"
		}]
	}
}`

const aspirinSynonyms = `{
	"InformationList": {
		"Information": [{
			"CID": 2244,
			"Synonym": ["aspirin", "ACETYLSALICYLIC ACID", "50-78-2", "2-Acetoxybenzoic acid"]
		}]
	}
}`

func TestPubChemSearchByName(t *testing.T) {
	c := withPubChemServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/compound/name/aspirin/property/"):
			fmt.Fprint(w, aspirinProperties)
		case strings.Contains(r.URL.Path, "/compound/cid/2244/synonyms/"):
			fmt.Fprint(w, aspirinSynonyms)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	rec, err := c.Search(context.Background(), "aspirin", ByName)
	if err != nil {
		t.Fatal(err)
	}

	if rec.CommonName != "Aspirin" {
		t.Errorf("CommonName = %q, want Aspirin", rec.CommonName)
	}
	if rec.IUPACName != "2-acetyloxybenzoic acid" {
		t.Errorf("IUPACName = %q", rec.IUPACName)
	}
	if rec.CID != "2244" {
		t.Errorf("CID = %q, want 2244", rec.CID)
	}
	if rec.CASNumber != "50-78-2" {
		t.Errorf("CASNumber = %q, want registry number harvested from synonyms", rec.CASNumber)
	}
	if len(rec.Synonyms) != 4 {
		t.Errorf("Synonyms = %v", rec.Synonyms)
	}
	if !strings.Contains(rec.ImageURL, "cid=2244") {
		t.Errorf("ImageURL = %q", rec.ImageURL)
	}
}

func TestPubChemSearchNotFound(t *testing.T) {
	c := withPubChemServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"Fault":{"Code":"PUGREST.NotFound"}}`)
	}))

	_, err := c.Search(context.Background(), "no-such-compound", ByName)
	if !IsNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPubChemSearchServerError(t *testing.T) {
	c := withPubChemServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Search(context.Background(), "aspirin", ByName)
	if err == nil || IsNotFound(err) {
		t.Errorf("err = %v, want transport-class error", err)
	}
}

func TestPubChemSynonymFailureIsBestEffort(t *testing.T) {
	c := withPubChemServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/synonyms/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, aspirinProperties)
	}))

	rec, err := c.Search(context.Background(), "2244", ByCID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Synonyms) != 0 {
		t.Errorf("Synonyms = %v, want none on synonym fetch failure", rec.Synonyms)
	}
	if rec.CommonName != "Aspirin" {
		t.Errorf("CommonName = %q, compound should still be returned", rec.CommonName)
	}
}

func TestPubChemSearchEmptyQuery(t *testing.T) {
	c := &PubChemClient{Client: http.DefaultClient, Config: testPubChemConfig()}
	if _, err := c.Search(context.Background(), "", ByName); err == nil {
		t.Error("want error for empty query")
	}
}

func TestCompoundURL(t *testing.T) {
	if got := CompoundURL("2244"); got != "https://pubchem.ncbi.nlm.nih.gov/compound/2244" {
		t.Errorf("CompoundURL = %q", got)
	}
}
