package engine

import (
	"fmt"
	"strings"

	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/interaction"
	"github.com/manwaring/initiative-tracker/internal/store"
)

// maxDescriptionLength bounds the description field, matching the Slack
// dialog textarea limit.
const maxDescriptionLength = 500

// validateEdit checks a dialog submission. Both fields are optional per
// submission, but a submitted name must not be blank and the description
// must fit the length bound. Validation failures mean no write happens at
// all; partial writes never occur.
func validateEdit(submission interaction.EditSubmission) []FieldError {
	var fieldErrors []FieldError

	if strings.TrimSpace(submission.Name) == "" {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "initiative_name",
			Message: "Initiative name is required",
		})
	}

	if len(submission.Description) > maxDescriptionLength {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "initiative_description",
			Message: fmt.Sprintf("Description must be %d characters or fewer", maxDescriptionLength),
		})
	}

	return fieldErrors
}

// editUpdates builds the field update map from a valid submission. A field
// is included only when its submitted value differs from the snapshot the
// dialog was opened with, so an untouched submission produces an empty map
// and no write.
func editUpdates(submission interaction.EditSubmission) store.FieldUpdates {
	updates := store.FieldUpdates{}

	if submission.Name != submission.State.OriginalName {
		updates[initiative.NameAttr] = submission.Name
	}

	if submission.Description != submission.State.OriginalDescription {
		updates[initiative.DescriptionAttr] = submission.Description
	}

	return updates
}
