// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call
// external chemistry APIs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for a single adapter call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "chemresolve/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubChemConfig holds settings for the PubChem PUG REST adapter.
type PubChemConfig struct {
	HTTPConfig `yaml:",inline"`

	// ContactEmail is sent with requests so PubChem can reach out about
	// traffic, per their usage policy. Optional.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// CASConfig holds settings for the CAS Common Chemistry adapter.
type CASConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the CAS Common Chemistry API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ResolveConfig holds settings for the resolution engine.
type ResolveConfig struct {
	// MaxSynonymQueryLen bounds candidate length for CAS synonym queries
	// (default 100). Longer strings are skipped, not truncated.
	MaxSynonymQueryLen int `json:"max_synonym_query_len" yaml:"max_synonym_query_len"`

	// MaxNameQueryLen bounds candidate length for PubChem name queries
	// (default 300).
	MaxNameQueryLen int `json:"max_name_query_len" yaml:"max_name_query_len"`

	// DebounceInterval is how long field-change triggers are coalesced
	// before starting a pass (default 700ms).
	DebounceInterval time.Duration `json:"debounce_interval" yaml:"debounce_interval"`
}

// WithDefaults returns the config with zero fields replaced by defaults.
func (c ResolveConfig) WithDefaults() ResolveConfig {
	if c.MaxSynonymQueryLen <= 0 {
		c.MaxSynonymQueryLen = 100
	}
	if c.MaxNameQueryLen <= 0 {
		c.MaxNameQueryLen = 300
	}
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = 700 * time.Millisecond
	}
	return c
}

// CatalogConfig holds settings for the local compound catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding the catalog database and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults limits catalog search result count (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	// Addr is the listen address (default ":8642").
	Addr string `json:"addr" yaml:"addr"`
}

// WithDefaults returns the config with zero fields replaced by defaults.
func (c ServerConfig) WithDefaults() ServerConfig {
	if c.Addr == "" {
		c.Addr = ":8642"
	}
	return c
}
