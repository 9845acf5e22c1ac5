// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve assembles complete chemical records from partial
// descriptors by querying the local catalog, PubChem, and the CAS registry
// in priority order and merging their answers without clobbering
// user-entered data.
package resolve

import "strings"

// BuildPool derives the ordered list of search terms to try against a
// source: the user's common name first, then synonyms discovered from the
// immediately preceding source, then synonyms already on the record.
// Candidates are trimmed; empties and strings of maxLen characters or more
// are dropped. Deduplication is exact-string; the first occurrence keeps
// its position.
func BuildPool(commonName string, discovered, existing []string, maxLen int) []string {
	seen := make(map[string]struct{})
	var pool []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(s) >= maxLen {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		pool = append(pool, s)
	}

	add(commonName)
	for _, s := range discovered {
		add(s)
	}
	for _, s := range existing {
		add(s)
	}
	return pool
}
