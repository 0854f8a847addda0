package interaction

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/manwaring/initiative-tracker/internal/initiative"
)

// buildPayload assembles a raw interaction payload for Parse.
func buildPayload(t *testing.T, mutate func(p *Payload)) []byte {
	t.Helper()

	p := Payload{
		Type: "block_actions",
		Team: Identity{ID: "T1"},
		User: Identity{ID: "U1", Name: "morty"},
	}

	if mutate != nil {
		mutate(&p)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	return raw
}

func TestParse_ButtonAction(t *testing.T) {
	t.Parallel()
	value := Value{InitiativeID: "I1"}.String()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{ActionID: string(JoinAsMember), Value: value}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Action != JoinAsMember {
		t.Errorf("expected action %s, got %s", JoinAsMember, event.Action)
	}
	if event.TeamID != "T1" || event.UserID != "U1" {
		t.Errorf("unexpected identity: team %s user %s", event.TeamID, event.UserID)
	}
}

func TestParse_SelectedOptionTakesPrecedence(t *testing.T) {
	t.Parallel()
	optionValue := Value{Action: MakeChampion, InitiativeID: "I1", SlackUserID: "U2"}.String()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{
			ActionID:       string(ViewDetails),
			SelectedOption: &SelectedOption{Value: optionValue},
		}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Action != MakeChampion {
		t.Errorf("expected selected option action to win, got %s", event.Action)
	}
}

func TestParse_UnparseableOptionFallsThroughToActionID(t *testing.T) {
	t.Parallel()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{
			ActionID:       string(ViewDetails),
			Value:          Value{InitiativeID: "I1"}.String(),
			SelectedOption: &SelectedOption{Value: "not json"},
		}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Action != ViewDetails {
		t.Errorf("expected fallthrough to action_id, got %s", event.Action)
	}
}

func TestParse_DialogCallbackID(t *testing.T) {
	t.Parallel()
	raw := buildPayload(t, func(p *Payload) {
		p.Type = "dialog_submission"
		p.CallbackID = string(SubmitEditDialog)
		p.Submission = map[string]string{"initiative_name": "New name"}
		p.State = DialogState{InitiativeID: "I1", OriginalName: "Old"}.Encode()
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Action != SubmitEditDialog {
		t.Errorf("expected dialog submission action, got %s", event.Action)
	}
}

func TestParse_UnknownActionIsNotImplemented(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(p *Payload)
	}{
		{
			name: "unknown action_id",
			mutate: func(p *Payload) {
				p.Actions = []PayloadAction{{ActionID: "SOMETHING_NEW"}}
			},
		},
		{
			name: "unknown callback_id",
			mutate: func(p *Payload) {
				p.CallbackID = "SOMETHING_NEW"
			},
		},
		{
			name:   "no action material at all",
			mutate: nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			event, err := Parse(buildPayload(t, tc.mutate))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if event.Action != NotImplemented {
				t.Errorf("expected NOT_IMPLEMENTED, got %s", event.Action)
			}
		})
	}
}

func TestParse_MissingIdentity(t *testing.T) {
	t.Parallel()
	noTeam := buildPayload(t, func(p *Payload) { p.Team.ID = "" })
	if _, err := Parse(noTeam); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload for missing team, got %v", err)
	}

	noUser := buildPayload(t, func(p *Payload) { p.User.ID = "" })
	if _, err := Parse(noUser); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload for missing user, got %v", err)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	t.Parallel()
	if _, err := Parse([]byte("{not json")); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestJoin_ChampionFlag(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		actionID Action
		value    Value
		champion bool
	}{
		{"member button", JoinAsMember, Value{InitiativeID: "I1"}, false},
		{"champion button", JoinAsChampion, Value{InitiativeID: "I1"}, true},
		{"champion flag in value", JoinAsMember, Value{InitiativeID: "I1", Champion: true}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := buildPayload(t, func(p *Payload) {
				p.Actions = []PayloadAction{{ActionID: string(tc.actionID), Value: tc.value.String()}}
			})

			event, err := Parse(raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			join, err := event.Join()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if join.InitiativeID != "I1" {
				t.Errorf("expected initiative I1, got %s", join.InitiativeID)
			}
			if join.Champion != tc.champion {
				t.Errorf("expected champion=%v, got %v", tc.champion, join.Champion)
			}
		})
	}
}

func TestJoin_MissingInitiativeID(t *testing.T) {
	t.Parallel()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{ActionID: string(JoinAsMember), Value: Value{}.String()}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := event.Join(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestMember_RequiresBothIDs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		value Value
		valid bool
	}{
		{"complete", Value{InitiativeID: "I1", SlackUserID: "U2"}, true},
		{"missing user", Value{InitiativeID: "I1"}, false},
		{"missing initiative", Value{SlackUserID: "U2"}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := buildPayload(t, func(p *Payload) {
				p.Actions = []PayloadAction{{ActionID: string(RemoveMember), Value: tc.value.String()}}
			})

			event, err := Parse(raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			member, err := event.Member()
			if tc.valid {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if member.InitiativeID != "I1" || member.SlackUserID != "U2" {
					t.Errorf("unexpected member payload %+v", member)
				}
				return
			}
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestStatus_FromValue(t *testing.T) {
	t.Parallel()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{
			ActionID: string(UpdateStatus),
			Value:    Value{InitiativeID: "I1", Status: initiative.StatusOnHold}.String(),
		}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	status, err := event.Status()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.Status != initiative.StatusOnHold {
		t.Errorf("expected ON_HOLD, got %s", status.Status)
	}
}

func TestStatus_ImpliedByMarkActions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		action Action
		status initiative.Status
	}{
		{MarkActive, initiative.StatusActive},
		{MarkOnHold, initiative.StatusOnHold},
		{MarkComplete, initiative.StatusComplete},
		{MarkAbandoned, initiative.StatusAbandoned},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.action), func(t *testing.T) {
			t.Parallel()
			raw := buildPayload(t, func(p *Payload) {
				p.Actions = []PayloadAction{{
					ActionID: string(tc.action),
					Value:    Value{InitiativeID: "I1"}.String(),
				}}
			})

			event, err := Parse(raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			status, err := event.Status()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status.Status != tc.status {
				t.Errorf("expected %s, got %s", tc.status, status.Status)
			}
		})
	}
}

func TestStatus_InvalidStatus(t *testing.T) {
	t.Parallel()
	raw := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{
			ActionID: string(UpdateStatus),
			Value:    Value{InitiativeID: "I1", Status: "PAUSED"}.String(),
		}}
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := event.Status(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestEdit_RoundTripsState(t *testing.T) {
	t.Parallel()
	state := DialogState{InitiativeID: "I1", OriginalName: "Old name", OriginalDescription: "Old description"}
	raw := buildPayload(t, func(p *Payload) {
		p.Type = "dialog_submission"
		p.CallbackID = string(SubmitEditDialog)
		p.Submission = map[string]string{
			"initiative_name":        "New name",
			"initiative_description": "Old description",
		}
		p.State = state.Encode()
	})

	event, err := Parse(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	edit, err := event.Edit()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if edit.Name != "New name" {
		t.Errorf("expected submitted name, got %s", edit.Name)
	}
	if edit.State != state {
		t.Errorf("expected state %+v, got %+v", state, edit.State)
	}
}

func TestEdit_InvalidState(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		state string
	}{
		{"not json", "garbage"},
		{"missing initiative ID", DialogState{OriginalName: "Old"}.Encode()},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := buildPayload(t, func(p *Payload) {
				p.Type = "dialog_submission"
				p.CallbackID = string(SubmitEditDialog)
				p.State = tc.state
			})

			event, err := Parse(raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := event.Edit(); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestList_OptionalFilter(t *testing.T) {
	t.Parallel()
	unfiltered := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{ActionID: string(ViewList)}}
	})

	event, err := Parse(unfiltered)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	list, err := event.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list.Status != "" {
		t.Errorf("expected no filter, got %s", list.Status)
	}

	filtered := buildPayload(t, func(p *Payload) {
		p.Actions = []PayloadAction{{
			ActionID: string(FilterByStatus),
			Value:    Value{Status: initiative.StatusComplete}.String(),
		}}
	})

	event, err = Parse(filtered)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	list, err = event.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list.Status != initiative.StatusComplete {
		t.Errorf("expected COMPLETE filter, got %s", list.Status)
	}
}

func TestValue_RoundTrip(t *testing.T) {
	t.Parallel()
	original := Value{
		Action:       MakeChampion,
		InitiativeID: "I1",
		SlackUserID:  "U2",
		Champion:     true,
	}

	parsed, err := ParseValue(original.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed != original {
		t.Errorf("expected %+v, got %+v", original, parsed)
	}
}

func TestImpliedStatus(t *testing.T) {
	t.Parallel()
	if _, ok := UpdateStatus.ImpliedStatus(); ok {
		t.Error("UPDATE_STATUS should not imply a status")
	}
	if status, ok := MarkAbandoned.ImpliedStatus(); !ok || status != initiative.StatusAbandoned {
		t.Errorf("expected ABANDONED, got %s (ok=%v)", status, ok)
	}
}
