package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/interaction"
	"github.com/manwaring/initiative-tracker/internal/store"
)

// Profile is the slice of a Slack user profile captured on member records.
type Profile struct {
	Name string
	Icon string
}

// ProfileSource looks up the profile of the user performing a join. The
// Slack Web API implementation lives in the slackapi package; tests inject
// fakes.
type ProfileSource interface {
	Profile(ctx context.Context, teamID, slackUserID string) (Profile, error)
}

type handlerFunc func(ctx context.Context, event *interaction.Event) (*Outcome, error)

// Engine routes classified interactions to their transition handlers.
type Engine struct {
	store    store.Gateway
	profiles ProfileSource
	opts     *Options
	handlers map[interaction.Action]handlerFunc
}

// New creates an Engine backed by the given store gateway and profile
// source. Both are required.
func New(gateway store.Gateway, profiles ProfileSource, opts ...Option) (*Engine, error) {
	if gateway == nil {
		return nil, errors.New("store gateway cannot be nil")
	}

	if profiles == nil {
		return nil, errors.New("profile source cannot be nil")
	}

	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	e := &Engine{
		store:    gateway,
		profiles: profiles,
		opts:     options,
	}

	// One handler per action, registered once. Several action ids share a
	// handler: both join roles, both role changes, and the MARK_* status
	// shorthands all route to the same transitions.
	e.handlers = map[interaction.Action]handlerFunc{
		interaction.JoinAsMember:     e.join,
		interaction.JoinAsChampion:   e.join,
		interaction.ViewDetails:      e.viewDetails,
		interaction.ViewList:         e.list,
		interaction.FilterByStatus:   e.list,
		interaction.OpenEditDialog:   e.openEditDialog,
		interaction.SubmitEditDialog: e.submitEditDialog,
		interaction.MakeChampion:     e.changeRole,
		interaction.MakeMember:       e.changeRole,
		interaction.RemoveMember:     e.removeMember,
		interaction.UpdateStatus:     e.updateStatus,
		interaction.MarkActive:       e.updateStatus,
		interaction.MarkOnHold:       e.updateStatus,
		interaction.MarkComplete:     e.updateStatus,
		interaction.MarkAbandoned:    e.updateStatus,
		interaction.NotImplemented:   e.notImplemented,
	}

	return e, nil
}

// Handle runs the handler registered for the event's action. Actions
// outside the registry resolve to the not-implemented outcome.
func (e *Engine) Handle(ctx context.Context, event *interaction.Event) (*Outcome, error) {
	handler, ok := e.handlers[event.Action]
	if !ok {
		handler = e.notImplemented
	}

	return handler(ctx, event)
}

// readAggregate fetches the initiative and all of its members with one
// prefix query and assembles the result.
func (e *Engine) readAggregate(ctx context.Context, teamID, initiativeID string) (*initiative.Aggregate, error) {
	records, err := e.store.QueryPrefix(ctx, initiativeID, initiative.TeamPrefix(teamID))
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: initiative %s", store.ErrNotFound, initiativeID)
	}

	agg, err := initiative.Assemble(records)
	if err != nil {
		return nil, fmt.Errorf("initiative %s: %w", initiativeID, err)
	}

	return agg, nil
}

func (e *Engine) now() time.Time {
	return e.opts.clock()
}
