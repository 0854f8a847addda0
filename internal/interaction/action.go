package interaction

import "github.com/manwaring/initiative-tracker/internal/initiative"

// Action identifies one interaction the transition engine knows how to
// handle. The string values double as Slack action_id / callback_id values
// and as the action field inside option values.
type Action string

const (
	JoinAsMember     Action = "JOIN_AS_MEMBER"
	JoinAsChampion   Action = "JOIN_AS_CHAMPION"
	ViewDetails      Action = "VIEW_DETAILS"
	ViewList         Action = "VIEW_LIST"
	FilterByStatus   Action = "FILTER_BY_STATUS"
	OpenEditDialog   Action = "OPEN_EDIT_DIALOG"
	SubmitEditDialog Action = "EDIT_INITIATIVE_DIALOG"
	MakeChampion     Action = "MAKE_CHAMPION"
	MakeMember       Action = "MAKE_MEMBER"
	RemoveMember     Action = "REMOVE_MEMBER"
	UpdateStatus     Action = "UPDATE_STATUS"

	// Shorthand status buttons rendered on status-update request messages.
	MarkActive    Action = "MARK_ACTIVE"
	MarkOnHold    Action = "MARK_ON_HOLD"
	MarkComplete  Action = "MARK_COMPLETE"
	MarkAbandoned Action = "MARK_ABANDONED"

	// NotImplemented is the terminal classification of any unrecognised
	// interaction. It is not an error; the engine answers it with a
	// no-op response telling the user the action is unsupported.
	NotImplemented Action = "NOT_IMPLEMENTED"
)

var known = map[Action]bool{
	JoinAsMember:     true,
	JoinAsChampion:   true,
	ViewDetails:      true,
	ViewList:         true,
	FilterByStatus:   true,
	OpenEditDialog:   true,
	SubmitEditDialog: true,
	MakeChampion:     true,
	MakeMember:       true,
	RemoveMember:     true,
	UpdateStatus:     true,
	MarkActive:       true,
	MarkOnHold:       true,
	MarkComplete:     true,
	MarkAbandoned:    true,
}

// Known reports whether a is part of the closed action set.
func Known(a Action) bool {
	return known[a]
}

// ImpliedStatus returns the status a shorthand MARK_* action sets. The
// second return value is false for every other action.
func (a Action) ImpliedStatus() (initiative.Status, bool) {
	switch a {
	case MarkActive:
		return initiative.StatusActive, true
	case MarkOnHold:
		return initiative.StatusOnHold, true
	case MarkComplete:
		return initiative.StatusComplete, true
	case MarkAbandoned:
		return initiative.StatusAbandoned, true
	default:
		return "", false
	}
}
