// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"reflect"
	"testing"
)

func TestOutcomeAddWarningDeduplicates(t *testing.T) {
	var out Outcome
	out.addWarning("a")
	out.addWarning("b")
	out.addWarning("a")

	want := []string{"a", "b"}
	if !reflect.DeepEqual(out.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", out.Warnings, want)
	}
}

func TestDiagnosticsFold(t *testing.T) {
	var d Diagnostics

	d.Fold(Outcome{Warnings: []string{"w1"}, Message: "first", Status: StatusNotFound})
	d.Fold(Outcome{Warnings: []string{"w1", "w2"}, Message: "second", Status: StatusFoundInPubChem})

	if want := []string{"w1", "w2"}; !reflect.DeepEqual(d.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", d.Warnings, want)
	}
	if d.Message != "second" {
		t.Errorf("Message = %q, terminal message must be replaced, not appended", d.Message)
	}
	if d.Status != StatusFoundInPubChem {
		t.Errorf("Status = %q, want %q", d.Status, StatusFoundInPubChem)
	}
}

func TestDiagnosticsIgnoresSuperseded(t *testing.T) {
	var d Diagnostics
	d.Fold(Outcome{Message: "keep", Status: StatusFoundInPubChem})
	d.Fold(Outcome{Message: "stale", Status: StatusNotFound, Superseded: true})

	if d.Message != "keep" {
		t.Errorf("Message = %q, superseded outcomes must be ignored", d.Message)
	}
}

func TestDiagnosticsReset(t *testing.T) {
	d := Diagnostics{Warnings: []string{"w"}, Message: "m", Status: StatusNotFound}
	d.Reset()
	if len(d.Warnings) != 0 || d.Message != "" || d.Status != "" {
		t.Errorf("Reset left %+v", d)
	}
}
