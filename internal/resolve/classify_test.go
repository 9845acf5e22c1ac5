// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		descriptor string
		want       DescriptorKind
	}{
		{"2244", KindCID},
		{"50-78-2", KindCASNumber},
		{"7732-18-5", KindCASNumber},
		{"InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)", KindInChI},
		{"CC(=O)OC1=CC=CC=C1C(=O)O", KindSMILES},
		{"C1=CC=CC=C1", KindSMILES},
		{"aspirin", KindName},
		{"  aspirin  ", KindName},
		{"Co", KindName},              // cobalt, not a SMILES
		{"vitamin c", KindName},       // space breaks the SMILES charset
		{"1,4-dioxane", KindName},     // comma breaks CID and SMILES patterns
		{"", KindName},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got, _ := Classify(tt.descriptor)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.descriptor, got, tt.want)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	rec := Seed("2244")
	if rec.PubChemCID != "2244" || rec.CommonName != "" {
		t.Errorf("Seed CID = %+v", rec)
	}

	rec = Seed("50-78-2")
	if rec.CASNumber != "50-78-2" {
		t.Errorf("Seed CAS = %+v", rec)
	}

	rec = Seed("aspirin")
	if rec.CommonName != "aspirin" {
		t.Errorf("Seed name = %+v", rec)
	}
}
