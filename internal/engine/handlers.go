package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/interaction"
	"github.com/manwaring/initiative-tracker/internal/store"
)

// join upserts the member record for the invoking user. The member sort
// key is deterministic, so a repeated join (or a rejoin in the other role)
// overwrites the previous record instead of duplicating it.
func (e *Engine) join(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Join()
	if err != nil {
		return nil, err
	}

	profile, err := e.profiles.Profile(ctx, event.TeamID, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile for user %s: %w", event.UserID, err)
	}

	record := initiative.NewMemberRecord(
		event.TeamID,
		payload.InitiativeID,
		event.UserID,
		profile.Name,
		profile.Icon,
		payload.Champion,
		e.now(),
	)

	if err := e.store.PutItem(ctx, record); err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// viewDetails re-reads the aggregate without mutating anything.
func (e *Engine) viewDetails(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Detail()
	if err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// openEditDialog reads the current initiative fields and produces the
// dialog descriptor, snapshotting the fields into the state token for
// diff-based validation on submit.
func (e *Engine) openEditDialog(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Detail()
	if err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	state := interaction.DialogState{
		InitiativeID:        agg.InitiativeID,
		OriginalName:        agg.Name,
		OriginalDescription: agg.Description,
	}

	return &Outcome{Dialog: &EditDialog{
		TriggerID:   event.TriggerID,
		Title:       "Update initiative",
		Name:        agg.Name,
		Description: agg.Description,
		State:       state.Encode(),
	}}, nil
}

// submitEditDialog validates the submission against the snapshot carried
// by the state token and updates only the fields that changed. A failed
// validation returns field errors with no write performed; a submission
// identical to the snapshot degenerates to a read-back.
func (e *Engine) submitEditDialog(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	submission, err := event.Edit()
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateEdit(submission); len(fieldErrors) > 0 {
		return &Outcome{FieldErrors: fieldErrors}, nil
	}

	updates := editUpdates(submission)
	if len(updates) > 0 {
		err := e.store.UpdateFields(
			ctx,
			submission.State.InitiativeID,
			initiative.InitiativeSortKey(event.TeamID),
			updates,
		)
		if err != nil {
			return nil, err
		}
	}

	agg, err := e.readAggregate(ctx, event.TeamID, submission.State.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// changeRole flips the champion flag of one member. Setting a member to
// the role it already has is a harmless no-op write.
func (e *Engine) changeRole(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Member()
	if err != nil {
		return nil, err
	}

	err = e.store.UpdateFields(
		ctx,
		payload.InitiativeID,
		initiative.MemberSortKey(event.TeamID, payload.SlackUserID),
		store.FieldUpdates{initiative.ChampionAttr: event.Action == interaction.MakeChampion},
	)
	if err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// removeMember deletes the member record unconditionally. Removing a
// member that does not exist is a success, not an error.
func (e *Engine) removeMember(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Member()
	if err != nil {
		return nil, err
	}

	err = e.store.DeleteItem(
		ctx,
		payload.InitiativeID,
		initiative.MemberSortKey(event.TeamID, payload.SlackUserID),
	)
	if err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// updateStatus sets the initiative's status. Any status may follow any
// status; operators correct mistakes freely.
func (e *Engine) updateStatus(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.Status()
	if err != nil {
		return nil, err
	}

	err = e.store.UpdateFields(
		ctx,
		payload.InitiativeID,
		initiative.InitiativeSortKey(event.TeamID),
		store.FieldUpdates{initiative.StatusAttr: payload.Status},
	)
	if err != nil {
		return nil, err
	}

	agg, err := e.readAggregate(ctx, event.TeamID, payload.InitiativeID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Aggregate: agg}, nil
}

// list returns the team's initiatives, optionally filtered by status.
func (e *Engine) list(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	payload, err := event.List()
	if err != nil {
		return nil, err
	}

	initiatives, err := e.ListInitiatives(ctx, event.TeamID, payload.Status)
	if err != nil {
		return nil, err
	}

	return &Outcome{Initiatives: initiatives, StatusFilter: payload.Status}, nil
}

func (e *Engine) notImplemented(_ context.Context, _ *interaction.Event) (*Outcome, error) {
	return &Outcome{NotImplemented: true}, nil
}

// ListInitiatives returns the team's initiative views, all of them when
// status is empty. It backs both the list interaction and the slash
// command.
func (e *Engine) ListInitiatives(ctx context.Context, teamID string, status initiative.Status) ([]initiative.Initiative, error) {
	records, err := e.store.QueryInitiatives(ctx, teamID, status)
	if err != nil {
		return nil, err
	}

	return initiative.Initiatives(records), nil
}

// CreateInitiative mints a new initiative with status ACTIVE and returns
// its aggregate. Creation happens through the slash command rather than an
// interaction, so it takes its inputs directly.
func (e *Engine) CreateInitiative(ctx context.Context, teamID, name, description string) (*initiative.Aggregate, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: initiative name cannot be empty", interaction.ErrMalformedPayload)
	}

	record := initiative.NewInitiativeRecord(teamID, uuid.NewString(), name, description, initiative.StatusActive)

	if err := e.store.PutItem(ctx, record); err != nil {
		return nil, err
	}

	return e.readAggregate(ctx, teamID, record.InitiativeID)
}
