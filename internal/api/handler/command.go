package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/manwaring/initiative-tracker/internal/engine"
	"github.com/manwaring/initiative-tracker/internal/initiative"
)

// CommandHandler serves the /initiatives slash command:
//
//	/initiatives            list every initiative of the team
//	/initiatives <status>   list initiatives with that status
//	/initiatives add <name> create a new initiative
type CommandHandler struct {
	engine *engine.Engine
}

// NewCommandHandler wires the slash command endpoint.
func NewCommandHandler(eng *engine.Engine) *CommandHandler {
	return &CommandHandler{engine: eng}
}

func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	teamID := r.PostFormValue("team_id")
	if teamID == "" {
		http.Error(w, "missing team_id", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(r.PostFormValue("text"))

	if text == "add" {
		h.create(w, r, teamID, "")
		return
	}

	if name, ok := strings.CutPrefix(text, "add "); ok {
		h.create(w, r, teamID, strings.TrimSpace(name))
		return
	}

	h.list(w, r, teamID, text)
}

func (h *CommandHandler) create(w http.ResponseWriter, r *http.Request, teamID, name string) {
	agg, err := h.engine.CreateInitiative(r.Context(), teamID, name, "")
	if err != nil {
		slog.Error("failed to create initiative", "team", teamID, "error", err)
		respondJSON(w, map[string]any{
			"response_type": "ephemeral",
			"text":          "Could not create the initiative. Usage: /initiatives add <name>",
		})
		return
	}

	respondJSON(w, map[string]any{
		"response_type": "in_channel",
		"text":          "Created initiative *" + agg.Name + "*",
		"initiative":    agg,
	})
}

func (h *CommandHandler) list(w http.ResponseWriter, r *http.Request, teamID, text string) {
	var status initiative.Status
	if text != "" {
		parsed, ok := initiative.ParseStatus(text)
		if !ok {
			respondJSON(w, map[string]any{
				"response_type": "ephemeral",
				"text":          "Unknown status " + text + ". Try ACTIVE, ON_HOLD, COMPLETE, or ABANDONED.",
			})
			return
		}
		status = parsed
	}

	initiatives, err := h.engine.ListInitiatives(r.Context(), teamID, status)
	if err != nil {
		slog.Error("failed to list initiatives", "team", teamID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"response_type": "ephemeral",
		"initiatives":   initiatives,
		"status":        status,
	})
}

func respondJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
