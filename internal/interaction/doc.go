// Package interaction classifies inbound Slack interaction payloads
// (button clicks, overflow menu selections, dialog submissions) into a
// closed set of actions and extracts their typed payloads.
//
// Classification follows a fixed precedence when multiple signals are
// present in one payload: an action embedded in a selected option's value
// wins over the first action's action_id, which wins over the dialog
// callback_id. Anything unrecognised classifies as [NotImplemented], which
// is a valid terminal action rather than an error.
//
// Payload extraction is strict: each action's extractor fails with an error
// wrapping [ErrMalformedPayload] when a required field is absent, and the
// failure is reported to the user as a handled error rather than escaping
// the dispatch boundary.
package interaction
