package engine

import "github.com/manwaring/initiative-tracker/internal/initiative"

// Outcome is the data a handler produces for the response renderer.
// Exactly one of the result fields is populated, depending on the action.
type Outcome struct {
	// Aggregate is the post-transition view of the initiative, set by
	// every mutating action and by VIEW_DETAILS.
	Aggregate *initiative.Aggregate

	// Initiatives is the team's (optionally filtered) initiative list, set
	// by the list actions.
	Initiatives []initiative.Initiative

	// StatusFilter is the filter the list was produced with, empty for an
	// unfiltered list.
	StatusFilter initiative.Status

	// Dialog asks the caller to open the edit dialog.
	Dialog *EditDialog

	// FieldErrors carries dialog validation failures back to the dialog.
	// When set, no state was mutated.
	FieldErrors []FieldError

	// NotImplemented marks the no-op outcome of an unrecognised action.
	NotImplemented bool
}

// EditDialog describes the edit dialog to open: the current field values
// and the opaque state token carrying them as the pre-edit snapshot.
type EditDialog struct {
	TriggerID   string `json:"trigger_id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// FieldError is a single dialog field validation failure, addressed to the
// submitted field it concerns.
type FieldError struct {
	Field   string `json:"name"`
	Message string `json:"error"`
}
