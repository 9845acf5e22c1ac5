// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"

	"github.com/carbonlab/chemresolve/pkg/types"
)

// DescriptorKind classifies a raw molecule descriptor.
type DescriptorKind int

const (
	KindName DescriptorKind = iota
	KindCID
	KindCASNumber
	KindInChI
	KindSMILES
)

func (k DescriptorKind) String() string {
	switch k {
	case KindCID:
		return "cid"
	case KindCASNumber:
		return "cas"
	case KindInChI:
		return "inchi"
	case KindSMILES:
		return "smiles"
	default:
		return "name"
	}
}

// cidPattern matches bare PubChem CIDs: "2244".
var cidPattern = regexp.MustCompile(`^\d+$`)

// casPattern matches CAS Registry Numbers: "50-78-2", "7732-18-5".
var casPattern = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)

// smilesCharset matches the SMILES alphabet. Classification additionally
// requires a structural character, since plain element symbols ("C", "Co")
// are far more likely to be names.
var smilesCharset = regexp.MustCompile(`^[A-Za-z0-9@+\-\[\]()\\/%=#$.:]+$`)

// Classify determines what kind of descriptor the user typed into the
// single search field. It is a heuristic: ambiguous strings fall back to
// KindName, which every source can handle.
func Classify(descriptor string) (DescriptorKind, string) {
	descriptor = strings.TrimSpace(descriptor)

	switch {
	case descriptor == "":
		return KindName, descriptor
	case cidPattern.MatchString(descriptor):
		return KindCID, descriptor
	case casPattern.MatchString(descriptor):
		return KindCASNumber, descriptor
	case strings.HasPrefix(descriptor, "InChI="):
		return KindInChI, descriptor
	case smilesCharset.MatchString(descriptor) && strings.ContainsAny(descriptor, "=#[]()"):
		return KindSMILES, descriptor
	default:
		return KindName, descriptor
	}
}

// Seed places a classified descriptor into the matching field of an empty
// draft record, the way the contribution form seeds its working record from
// the single search box.
func Seed(descriptor string) types.Compound {
	var rec types.Compound
	kind, normalized := Classify(descriptor)
	switch kind {
	case KindCID:
		rec.PubChemCID = normalized
	case KindCASNumber:
		rec.CASNumber = normalized
	case KindInChI:
		rec.InChI = normalized
	case KindSMILES:
		rec.SMILES = normalized
	default:
		rec.CommonName = normalized
	}
	return rec
}
