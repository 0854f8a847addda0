package initiative

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an initiative. Transitions between
// statuses are unconstrained; operators move initiatives freely to correct
// mistakes.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusComplete  Status = "COMPLETE"
	StatusAbandoned Status = "ABANDONED"
)

// Statuses lists every valid status value.
var Statuses = []Status{StatusActive, StatusOnHold, StatusComplete, StatusAbandoned}

// ParseStatus normalises free text (as typed into a slash command) into a
// Status. It upper-cases the input and replaces spaces with underscores, so
// "on hold" and "ON_HOLD" are equivalent. The second return value reports
// whether the input named a valid status.
func ParseStatus(text string) (Status, bool) {
	normalised := Status(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(text)), " ", "_"))

	for _, s := range Statuses {
		if normalised == s {
			return s, true
		}
	}

	return "", false
}

// Record kind discriminant values stored in the "type" attribute.
const (
	TypeInitiative = "INITIATIVE"
	TypeMember     = "MEMBER"
)

// Record is the raw shape of a single table item. Initiative and member
// records share the struct; the Type discriminant tells them apart and
// unused attributes are omitted from storage.
type Record struct {
	InitiativeID string `dynamodbav:"initiativeId" json:"initiativeId"`
	Identifiers  string `dynamodbav:"identifiers" json:"identifiers"`
	Type         string `dynamodbav:"type" json:"type"`

	// Name is the initiative's display name on INITIATIVE records and the
	// member's display name on MEMBER records.
	Name string `dynamodbav:"name,omitempty" json:"name,omitempty"`

	// Initiative attributes.
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Status      Status `dynamodbav:"status,omitempty" json:"status,omitempty"`

	// Member attributes.
	SlackUserID string `dynamodbav:"slackUserId,omitempty" json:"slackUserId,omitempty"`
	Icon        string `dynamodbav:"icon,omitempty" json:"icon,omitempty"`
	JoinedAt    string `dynamodbav:"joinedAt,omitempty" json:"joinedAt,omitempty"`
	Champion    bool   `dynamodbav:"champion,omitempty" json:"champion,omitempty"`
}

// NewInitiativeRecord builds the record for a freshly created initiative.
func NewInitiativeRecord(teamID, initiativeID, name, description string, status Status) Record {
	return Record{
		InitiativeID: initiativeID,
		Identifiers:  InitiativeSortKey(teamID),
		Type:         TypeInitiative,
		Name:         name,
		Description:  description,
		Status:       status,
	}
}

// NewMemberRecord builds the record written when a user joins an initiative.
// The sort key is deterministic, so rejoining overwrites the previous
// membership (including its role and joinedAt timestamp).
func NewMemberRecord(teamID, initiativeID, slackUserID, name, icon string, champion bool, joinedAt time.Time) Record {
	return Record{
		InitiativeID: initiativeID,
		Identifiers:  MemberSortKey(teamID, slackUserID),
		Type:         TypeMember,
		SlackUserID:  slackUserID,
		Name:         name,
		Icon:         icon,
		JoinedAt:     joinedAt.UTC().Format(time.RFC3339),
		Champion:     champion,
	}
}
