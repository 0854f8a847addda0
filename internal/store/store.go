// Package store defines the key-value storage contract the transition
// engine runs against, together with the storage error taxonomy. The
// DynamoDB implementation lives in the dynamodb package; tests substitute
// in-memory fakes.
package store

import (
	"context"
	"errors"

	"github.com/manwaring/initiative-tracker/internal/initiative"
)

var (
	// ErrNotFound indicates that no item exists under the requested key.
	ErrNotFound = errors.New("item not found")

	// ErrUnavailable indicates a transient backend failure. The caller may
	// retry the whole invocation; the store layer itself never retries.
	ErrUnavailable = errors.New("store unavailable")

	// ErrRejected indicates the store refused a malformed request, such as
	// an update with an empty field set. It signals a bug and must not be
	// retried.
	ErrRejected = errors.New("store rejected request")
)

// FieldUpdates maps attribute names to their new values for a partial
// update. Only the named fields are written; all other attributes of the
// item are left untouched.
type FieldUpdates map[string]any

// Gateway is the minimal set of table operations the engine needs. Every
// write is a single-key operation; atomicity per key is delegated to the
// underlying store and no multi-key transactions are used.
type Gateway interface {
	// GetItem reads one item by its full key. Returns [ErrNotFound] when
	// the item does not exist.
	GetItem(ctx context.Context, initiativeID, identifiers string) (*initiative.Record, error)

	// QueryPrefix returns every item in the partition whose sort key
	// begins with prefix, in the store's natural order, paginating
	// internally as needed.
	QueryPrefix(ctx context.Context, initiativeID, prefix string) ([]initiative.Record, error)

	// PutItem writes the record unconditionally, overwriting any existing
	// item under the same key.
	PutItem(ctx context.Context, record initiative.Record) error

	// UpdateFields partially updates the named fields of one item.
	// An empty update set fails with [ErrRejected].
	UpdateFields(ctx context.Context, initiativeID, identifiers string, updates FieldUpdates) error

	// DeleteItem removes one item by its full key. Deleting a missing item
	// is a no-op success.
	DeleteItem(ctx context.Context, initiativeID, identifiers string) error

	// QueryInitiatives returns the INITIATIVE records of one team, all of
	// them when status is empty, otherwise only those with the given
	// status.
	QueryInitiatives(ctx context.Context, teamID string, status initiative.Status) ([]initiative.Record, error)

	// QueryAllInitiatives returns every INITIATIVE record across all
	// teams. Used by the status-update broadcast, which performs no
	// mutation.
	QueryAllInitiatives(ctx context.Context) ([]initiative.Record, error)
}
