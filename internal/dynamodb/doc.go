// Package dynamodb provides the DynamoDB-backed implementation of the
// [github.com/manwaring/initiative-tracker/internal/store.Gateway]
// interface for the initiative tracker.
//
// # Overview
//
// The package uses a single-table DynamoDB design. Every record is keyed by
// an initiative ID (partition key, "initiativeId") combined with a
// team-scoped composite sort key ("identifiers"):
//
//   - Initiatives: TEAM#<teamId>#INITIATIVE
//   - Members:     TEAM#<teamId>#MEMBER#<slackUserId>
//
// Two Global Secondary Indexes support cross-partition queries:
//
//   - [GSIStatus]: list a team's initiatives, optionally by status.
//   - [GSIType]: enumerate all initiatives for the status-update broadcast.
//
// # Getting Started
//
// Create a [Client] with [New], supplying an AWS config, the DynamoDB table
// name, and any [Option] values you need:
//
//	client := dynamodb.New(&awsCfg, tableName)
//	if err := client.Connect(); err != nil { ... }
//	if err := client.Init(ctx, false); err != nil { ... }
//
// By default, [New] creates an AWS SDK v2 DynamoDB client from the supplied
// [aws.Config]. Supply [WithAPI] to inject a custom or mock implementation.
//
// # Error Classification
//
// Failures surface as one of the store package sentinels: transient backend
// faults (throttling, internal server errors, transport failures) wrap
// [store.ErrUnavailable] and may be retried by the invocation wrapper;
// request faults wrap [store.ErrRejected] and indicate a bug. Missing items
// on GetItem wrap [store.ErrNotFound].
//
// # Concurrency
//
// [Client] is safe for concurrent use by multiple goroutines after
// [Client.Connect] has returned.
package dynamodb
