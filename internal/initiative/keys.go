package initiative

const (
	// PartitionKey is the DynamoDB partition key attribute name.
	PartitionKey = "initiativeId"

	// SortKey is the DynamoDB sort key attribute name. It holds the
	// team-scoped composite identifiers built by [InitiativeSortKey] and
	// [MemberSortKey].
	SortKey = "identifiers"

	// TypeAttr is the attribute name of the record kind discriminant.
	TypeAttr = "type"

	// StatusAttr is the attribute name of an initiative's status. It also
	// serves as the sort key for both Global Secondary Indexes.
	StatusAttr = "status"

	// NameAttr is the attribute name of an initiative's display name.
	NameAttr = "name"

	// DescriptionAttr is the attribute name of an initiative's description.
	DescriptionAttr = "description"

	// ChampionAttr is the attribute name of a member's role flag.
	ChampionAttr = "champion"
)

// TeamPrefix returns the sort key prefix shared by an initiative's own
// record and all of its member records for the given team. Querying a
// partition with begins_with on this prefix fetches the whole aggregate.
func TeamPrefix(teamID string) string {
	return "TEAM#" + teamID + "#"
}

// InitiativeSortKey returns the sort key of the initiative record itself.
func InitiativeSortKey(teamID string) string {
	return TeamPrefix(teamID) + "INITIATIVE"
}

// MemberSortKey returns the sort key of the member record for the given
// Slack user. The key is a pure function of its inputs, so repeated joins
// by the same user land on the same item.
func MemberSortKey(teamID, slackUserID string) string {
	return TeamPrefix(teamID) + "MEMBER#" + slackUserID
}
