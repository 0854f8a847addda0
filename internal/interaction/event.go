package interaction

import (
	"encoding/json"
	"fmt"

	"github.com/manwaring/initiative-tracker/internal/initiative"
)

// Event is a classified interaction, carrying the common envelope fields
// every handler needs plus the raw material for per-action payload
// extraction.
type Event struct {
	Action      Action
	TeamID      string
	UserID      string
	ChannelID   string
	TriggerID   string
	ResponseURL string

	value      string
	submission map[string]string
	state      string
}

// Parse decodes a raw interaction payload and classifies it. Unknown
// actions classify as [NotImplemented]; a payload without team or user
// identity fails with [ErrMalformedPayload].
func Parse(raw []byte) (*Event, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if payload.Team.ID == "" {
		return nil, fmt.Errorf("%w: missing team ID", ErrMalformedPayload)
	}

	if payload.User.ID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrMalformedPayload)
	}

	action, value := classify(&payload)

	return &Event{
		Action:      action,
		TeamID:      payload.Team.ID,
		UserID:      payload.User.ID,
		ChannelID:   payload.Channel.ID,
		TriggerID:   payload.TriggerID,
		ResponseURL: payload.ResponseURL,
		value:       value,
		submission:  payload.Submission,
		state:       payload.State,
	}, nil
}

// classify resolves the action and its value string. A selected option's
// embedded action takes precedence over the button action_id, which takes
// precedence over the dialog callback_id.
func classify(payload *Payload) (Action, string) {
	if len(payload.Actions) > 0 {
		first := payload.Actions[0]

		if first.SelectedOption != nil && first.SelectedOption.Value != "" {
			// A value string that does not parse is not fatal here; the
			// action_id below may still classify the interaction.
			if v, err := ParseValue(first.SelectedOption.Value); err == nil && Known(v.Action) {
				return v.Action, first.SelectedOption.Value
			}
		}

		if first.ActionID != "" {
			if action := Action(first.ActionID); Known(action) {
				return action, first.Value
			}

			return NotImplemented, ""
		}
	}

	if payload.CallbackID != "" {
		if action := Action(payload.CallbackID); Known(action) {
			return action, ""
		}
	}

	return NotImplemented, ""
}

// JoinPayload is the typed payload of JOIN_AS_MEMBER / JOIN_AS_CHAMPION.
type JoinPayload struct {
	InitiativeID string
	Champion     bool
}

// Join extracts the join payload. The champion flag comes from the value
// string, with the JOIN_AS_CHAMPION action id implying it as well.
func (e *Event) Join() (JoinPayload, error) {
	v, err := ParseValue(e.value)
	if err != nil {
		return JoinPayload{}, err
	}

	if v.InitiativeID == "" {
		return JoinPayload{}, fmt.Errorf("%w: join payload missing initiative ID", ErrMalformedPayload)
	}

	return JoinPayload{
		InitiativeID: v.InitiativeID,
		Champion:     v.Champion || e.Action == JoinAsChampion,
	}, nil
}

// DetailPayload is the typed payload of VIEW_DETAILS and OPEN_EDIT_DIALOG.
type DetailPayload struct {
	InitiativeID string
}

// Detail extracts the initiative reference of a read-only action.
func (e *Event) Detail() (DetailPayload, error) {
	v, err := ParseValue(e.value)
	if err != nil {
		return DetailPayload{}, err
	}

	if v.InitiativeID == "" {
		return DetailPayload{}, fmt.Errorf("%w: payload missing initiative ID", ErrMalformedPayload)
	}

	return DetailPayload{InitiativeID: v.InitiativeID}, nil
}

// MemberPayload is the typed payload of the membership actions
// (MAKE_CHAMPION, MAKE_MEMBER, REMOVE_MEMBER).
type MemberPayload struct {
	InitiativeID string
	SlackUserID  string
}

// Member extracts the member reference of a membership action.
func (e *Event) Member() (MemberPayload, error) {
	v, err := ParseValue(e.value)
	if err != nil {
		return MemberPayload{}, err
	}

	if v.InitiativeID == "" {
		return MemberPayload{}, fmt.Errorf("%w: member payload missing initiative ID", ErrMalformedPayload)
	}

	if v.SlackUserID == "" {
		return MemberPayload{}, fmt.Errorf("%w: member payload missing Slack user ID", ErrMalformedPayload)
	}

	return MemberPayload{InitiativeID: v.InitiativeID, SlackUserID: v.SlackUserID}, nil
}

// StatusPayload is the typed payload of UPDATE_STATUS and the MARK_*
// shorthand actions.
type StatusPayload struct {
	InitiativeID string
	Status       initiative.Status
}

// Status extracts the status change. The new status comes from the value
// string for UPDATE_STATUS and from the action id itself for the MARK_*
// shorthands.
func (e *Event) Status() (StatusPayload, error) {
	v, err := ParseValue(e.value)
	if err != nil {
		return StatusPayload{}, err
	}

	if v.InitiativeID == "" {
		return StatusPayload{}, fmt.Errorf("%w: status payload missing initiative ID", ErrMalformedPayload)
	}

	status := v.Status
	if implied, ok := e.Action.ImpliedStatus(); ok {
		status = implied
	}

	if _, ok := initiative.ParseStatus(string(status)); !ok {
		return StatusPayload{}, fmt.Errorf("%w: invalid status %q", ErrMalformedPayload, status)
	}

	return StatusPayload{InitiativeID: v.InitiativeID, Status: status}, nil
}

// EditSubmission is the typed payload of a submitted edit dialog: the
// submitted field values plus the pre-edit snapshot carried by the state
// token.
type EditSubmission struct {
	Name        string
	Description string
	State       DialogState
}

// Edit extracts the edit dialog submission.
func (e *Event) Edit() (EditSubmission, error) {
	state, err := DecodeDialogState(e.state)
	if err != nil {
		return EditSubmission{}, err
	}

	return EditSubmission{
		Name:        e.submission["initiative_name"],
		Description: e.submission["initiative_description"],
		State:       state,
	}, nil
}

// ListPayload is the typed payload of VIEW_LIST / FILTER_BY_STATUS. An
// empty status means no filter.
type ListPayload struct {
	Status initiative.Status
}

// List extracts the optional status filter. A missing or empty value
// string means an unfiltered list, not an error.
func (e *Event) List() (ListPayload, error) {
	if e.value == "" {
		return ListPayload{}, nil
	}

	v, err := ParseValue(e.value)
	if err != nil {
		return ListPayload{}, err
	}

	if v.Status == "" {
		return ListPayload{}, nil
	}

	status, ok := initiative.ParseStatus(string(v.Status))
	if !ok {
		return ListPayload{}, fmt.Errorf("%w: invalid status filter %q", ErrMalformedPayload, v.Status)
	}

	return ListPayload{Status: status}, nil
}
