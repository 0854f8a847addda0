// Package handler implements the HTTP handlers for the Slack interaction
// endpoint and the slash command.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/manwaring/initiative-tracker/internal/engine"
	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/interaction"
	"github.com/manwaring/initiative-tracker/internal/store"
)

// Replier delivers responses back through Slack: interaction replies via
// response_url and dialog opens via trigger_id. The slackapi package
// provides the production implementation.
type Replier interface {
	Reply(ctx context.Context, responseURL string, message any) error
	OpenDialog(ctx context.Context, triggerID string, dialog any) error
}

// InteractionHandler serves the Slack interactivity endpoint: it parses
// the posted payload, runs the transition engine, and routes the outcome
// back through the Replier.
type InteractionHandler struct {
	engine  *engine.Engine
	replier Replier
}

// NewInteractionHandler wires the interaction endpoint.
func NewInteractionHandler(eng *engine.Engine, replier Replier) *InteractionHandler {
	return &InteractionHandler{engine: eng, replier: replier}
}

func (h *InteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	raw := r.PostFormValue("payload")
	if raw == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	event, err := interaction.Parse([]byte(raw))
	if err != nil {
		slog.Warn("failed to parse interaction payload", "error", err)
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	outcome, err := h.engine.Handle(r.Context(), event)
	if err != nil {
		h.handleError(r.Context(), w, event, err)
		return
	}

	switch {
	case len(outcome.FieldErrors) > 0:
		// Dialog validation errors go back in the HTTP response body so
		// Slack renders them against the open dialog. No state was
		// mutated.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": outcome.FieldErrors})

	case outcome.Dialog != nil:
		if err := h.replier.OpenDialog(r.Context(), outcome.Dialog.TriggerID, outcome.Dialog); err != nil {
			slog.Error("failed to open edit dialog", "error", err)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		if err := h.replier.Reply(r.Context(), event.ResponseURL, renderOutcome(outcome)); err != nil {
			slog.Error("failed to reply to interaction", "error", err)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// handleError maps the engine error taxonomy onto HTTP and user-visible
// outcomes. Payload and not-found failures terminate the invocation
// cleanly with a handled reply; aggregate invariant violations and store
// rejections are bugs and return server errors; transient store failures
// surface as retryable.
func (h *InteractionHandler) handleError(ctx context.Context, w http.ResponseWriter, event *interaction.Event, err error) {
	switch {
	case errors.Is(err, interaction.ErrMalformedPayload):
		slog.Warn("malformed action payload", "action", event.Action, "error", err)
		h.replyText(ctx, event.ResponseURL, "Something went wrong handling that action.")
		w.WriteHeader(http.StatusOK)

	case errors.Is(err, store.ErrNotFound):
		slog.Warn("referenced initiative or member no longer exists", "action", event.Action, "error", err)
		h.replyText(ctx, event.ResponseURL, "That initiative no longer exists.")
		w.WriteHeader(http.StatusOK)

	case errors.Is(err, initiative.ErrMalformedAggregate), errors.Is(err, store.ErrRejected):
		slog.Error("invariant violation handling interaction", "action", event.Action, "error", err)
		w.WriteHeader(http.StatusInternalServerError)

	case errors.Is(err, store.ErrUnavailable):
		slog.Error("store unavailable handling interaction", "action", event.Action, "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)

	default:
		slog.Error("failed to handle interaction", "action", event.Action, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *InteractionHandler) replyText(ctx context.Context, responseURL, text string) {
	message := map[string]any{"response_type": "ephemeral", "text": text}
	if err := h.replier.Reply(ctx, responseURL, message); err != nil {
		slog.Error("failed to send error reply", "error", err)
	}
}

// renderOutcome wraps the outcome data in a minimal message envelope. Full
// block-kit rendering belongs to the response assembler, not this service.
func renderOutcome(outcome *engine.Outcome) map[string]any {
	switch {
	case outcome.NotImplemented:
		return map[string]any{
			"response_type": "ephemeral",
			"text":          "Sorry, that action isn't supported yet.",
		}

	case outcome.Aggregate != nil:
		return map[string]any{
			"response_type": "in_channel",
			"text": fmt.Sprintf("*%s* (%s) with %d member(s)",
				outcome.Aggregate.Name, outcome.Aggregate.Status, len(outcome.Aggregate.Members)),
			"initiative": outcome.Aggregate,
		}

	default:
		return map[string]any{
			"response_type": "ephemeral",
			"initiatives":   outcome.Initiatives,
			"status":        outcome.StatusFilter,
		}
	}
}
