package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manwaring/initiative-tracker/internal/engine"
	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/store"
)

func newCommandHandler(t *testing.T, gateway store.Gateway) *CommandHandler {
	t.Helper()

	eng, err := engine.New(gateway, staticProfiles{})
	require.NoError(t, err)

	return NewCommandHandler(eng)
}

func postCommand(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/slack/commands/initiatives", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestCommand_ListAll(t *testing.T) {
	t.Parallel()
	gateway := newMemGateway()
	seedInitiative(gateway, "T1", "I1", "Mentoring", initiative.StatusActive)
	seedInitiative(gateway, "T1", "I2", "Hack week", initiative.StatusOnHold)
	handler := newCommandHandler(t, gateway)

	recorder := postCommand(t, handler, url.Values{"team_id": {"T1"}})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "ephemeral", body["response_type"])
	assert.Len(t, body["initiatives"], 2)
}

func TestCommand_ListFiltered(t *testing.T) {
	t.Parallel()
	gateway := newMemGateway()
	seedInitiative(gateway, "T1", "I1", "Mentoring", initiative.StatusActive)
	seedInitiative(gateway, "T1", "I2", "Hack week", initiative.StatusOnHold)
	handler := newCommandHandler(t, gateway)

	// Status text is normalised, so "on hold" matches ON_HOLD.
	recorder := postCommand(t, handler, url.Values{"team_id": {"T1"}, "text": {"on hold"}})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	require.Len(t, body["initiatives"], 1)
	assert.Equal(t, "ON_HOLD", body["status"])
}

func TestCommand_UnknownStatus(t *testing.T) {
	t.Parallel()
	handler := newCommandHandler(t, newMemGateway())

	recorder := postCommand(t, handler, url.Values{"team_id": {"T1"}, "text": {"paused"}})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "ephemeral", body["response_type"])
	assert.Contains(t, body["text"], "Unknown status")
}

func TestCommand_Create(t *testing.T) {
	t.Parallel()
	gateway := newMemGateway()
	handler := newCommandHandler(t, gateway)

	recorder := postCommand(t, handler, url.Values{"team_id": {"T1"}, "text": {"add Mentoring program"}})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "in_channel", body["response_type"])
	assert.Contains(t, body["text"], "Mentoring program")

	records, err := gateway.QueryInitiatives(context.Background(), "T1", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, initiative.StatusActive, records[0].Status)
}

func TestCommand_CreateWithoutName(t *testing.T) {
	t.Parallel()
	handler := newCommandHandler(t, newMemGateway())

	recorder := postCommand(t, handler, url.Values{"team_id": {"T1"}, "text": {"add"}})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "ephemeral", body["response_type"])
	assert.Contains(t, body["text"], "Usage")
}

func TestCommand_MissingTeamID(t *testing.T) {
	t.Parallel()
	handler := newCommandHandler(t, newMemGateway())

	recorder := postCommand(t, handler, url.Values{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
