// Package engine applies classified interactions to the initiative table.
//
// The engine maps every [interaction.Action] to a handler through a
// registry built once at construction. Each handler validates its typed
// payload, issues exactly one logical write through the store gateway, and
// re-reads the initiative's full aggregate so the caller can render the
// post-mutation view. Read-only actions skip the write; dialog validation
// failures return field errors with no write performed.
//
// Handlers hold no state between invocations. Concurrency safety is
// delegated to the store's per-key atomicity: all writes are single-key,
// there is no read-modify-write cycle, and the post-write re-read may
// legitimately observe a concurrent invocation's mutation.
package engine
