// Package initiative defines the initiative tracker's record model and
// identifier scheme.
//
// # Single-table layout
//
// Initiatives and their members share one DynamoDB table. Every record is
// keyed by the initiative ID (partition key, "initiativeId") combined with a
// team-scoped composite sort key ("identifiers"):
//
//   - Initiatives: TEAM#<teamId>#INITIATIVE
//   - Members:     TEAM#<teamId>#MEMBER#<slackUserId>
//
// Both sort keys share the TEAM#<teamId># prefix, so a single begins_with
// query on the partition returns an initiative together with all of its
// members. Member sort keys are deterministic, which makes joining an
// initiative an idempotent upsert: a duplicate join overwrites the existing
// member record instead of creating a second one.
//
// A "type" attribute (INITIATIVE or MEMBER) discriminates the two record
// kinds. [Assemble] converts a raw query result into an [Aggregate] and
// fails with [ErrMalformedAggregate] when the result does not contain
// exactly one initiative record.
package initiative
