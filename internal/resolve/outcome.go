// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "github.com/carbonlab/chemresolve/pkg/types"

// Status is the terminal state of a resolution pass.
type Status string

const (
	StatusFoundInDatabase Status = "found-in-database"
	StatusFoundInPubChem  Status = "found-in-pubchem"
	StatusNotFound        Status = "not-found"
	StatusSearchError     Status = "search-error"
)

// Trigger identifies what started a resolution pass.
type Trigger string

const (
	// TriggerSearch is an explicit user action.
	TriggerSearch Trigger = "search"

	// TriggerFieldChange is a debounced form-field edit.
	TriggerFieldChange Trigger = "field-change"
)

// Outcome is the result of one resolution pass. It is ephemeral: the caller
// folds it into its diagnostics and replaces its working record.
type Outcome struct {
	// Record is the draft after all merges of this pass.
	Record types.Compound `json:"record"`

	// MatchedID is the catalog ID when the pass hit an existing entry.
	MatchedID string `json:"matched_id,omitempty"`

	// Warnings are advisory messages, ordered and duplicate-free.
	Warnings []string `json:"warnings,omitempty"`

	// Status is the terminal state of the pass.
	Status Status `json:"status"`

	// Message is the terminal user-facing message.
	Message string `json:"message"`

	// PubChemURL links the matched PubChem compound page, when a CID is known.
	PubChemURL string `json:"pubchem_url,omitempty"`

	// Superseded reports that a newer pass started before this one finished;
	// the caller should discard the outcome.
	Superseded bool `json:"superseded,omitempty"`
}

// addWarning appends msg unless it is already present, so re-running the
// same path does not duplicate warnings.
func (o *Outcome) addWarning(msg string) {
	for _, w := range o.Warnings {
		if w == msg {
			return
		}
	}
	o.Warnings = append(o.Warnings, msg)
}

// Diagnostics accumulates advisory output across resolution passes on
// behalf of the contribution form. Warnings are append-only and
// deduplicated; exactly one terminal message is held at a time.
type Diagnostics struct {
	Warnings []string
	Message  string
	Status   Status
}

// Fold merges an outcome into the collector: warnings are appended if not
// already present, the terminal message and status are replaced. Superseded
// outcomes are ignored.
func (d *Diagnostics) Fold(out Outcome) {
	if out.Superseded {
		return
	}
	for _, w := range out.Warnings {
		d.addWarning(w)
	}
	d.Message = out.Message
	d.Status = out.Status
}

func (d *Diagnostics) addWarning(msg string) {
	for _, w := range d.Warnings {
		if w == msg {
			return
		}
	}
	d.Warnings = append(d.Warnings, msg)
}

// Reset clears the collector, for form reset or navigation.
func (d *Diagnostics) Reset() {
	d.Warnings = nil
	d.Message = ""
	d.Status = ""
}
