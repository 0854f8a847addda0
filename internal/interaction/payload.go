package interaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manwaring/initiative-tracker/internal/initiative"
)

// ErrMalformedPayload indicates an inbound interaction payload is missing
// fields the classified action requires.
var ErrMalformedPayload = errors.New("malformed interaction payload")

// Payload mirrors the decoded Slack interaction callback, limited to the
// fields the tracker reads.
type Payload struct {
	Type        string            `json:"type"`
	Team        Identity          `json:"team"`
	User        Identity          `json:"user"`
	Channel     Identity          `json:"channel"`
	CallbackID  string            `json:"callback_id"`
	TriggerID   string            `json:"trigger_id"`
	ResponseURL string            `json:"response_url"`
	Actions     []PayloadAction   `json:"actions"`
	Submission  map[string]string `json:"submission"`
	State       string            `json:"state"`
}

// Identity is a Slack id/name pair (team, user, or channel).
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PayloadAction is one entry of the payload's actions array.
type PayloadAction struct {
	ActionID       string          `json:"action_id"`
	Value          string          `json:"value"`
	SelectedOption *SelectedOption `json:"selected_option,omitempty"`
}

// SelectedOption is the chosen entry of an overflow or static select menu.
// Its value string carries an embedded [Value].
type SelectedOption struct {
	Value string `json:"value"`
}

// Value is the opaque value string attached to buttons and menu options,
// serialised as JSON. Which fields are populated depends on the action.
type Value struct {
	Action       Action            `json:"action,omitempty"`
	InitiativeID string            `json:"initiativeId,omitempty"`
	SlackUserID  string            `json:"slackUserId,omitempty"`
	Status       initiative.Status `json:"status,omitempty"`
	Champion     bool              `json:"champion,omitempty"`
}

// ParseValue deserialises an action value string.
func ParseValue(raw string) (Value, error) {
	var v Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Value{}, fmt.Errorf("%w: invalid value string: %w", ErrMalformedPayload, err)
	}

	return v, nil
}

// String serialises the value the way it is embedded into rendered buttons
// and menu options.
func (v Value) String() string {
	// Marshalling a flat struct of strings cannot fail.
	b, _ := json.Marshal(v)
	return string(b)
}

// DialogState is the opaque state token round-tripped through the edit
// dialog. It carries the pre-edit snapshot used for diff-based validation
// of the submission.
type DialogState struct {
	InitiativeID        string `json:"initiativeId"`
	OriginalName        string `json:"originalName"`
	OriginalDescription string `json:"originalDescription"`
}

// Encode serialises the state token for embedding into a dialog.
func (s DialogState) Encode() string {
	b, _ := json.Marshal(s)
	return string(b)
}

// DecodeDialogState parses the state token of a dialog submission.
func DecodeDialogState(raw string) (DialogState, error) {
	var s DialogState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DialogState{}, fmt.Errorf("%w: invalid dialog state token: %w", ErrMalformedPayload, err)
	}

	if s.InitiativeID == "" {
		return DialogState{}, fmt.Errorf("%w: dialog state token missing initiative ID", ErrMalformedPayload)
	}

	return s, nil
}
