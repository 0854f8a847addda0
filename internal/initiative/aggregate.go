package initiative

import (
	"errors"
	"fmt"
)

// ErrMalformedAggregate indicates that a prefix query for an initiative did
// not contain exactly one INITIATIVE record. This is an internal invariant
// violation and is never repaired silently.
var ErrMalformedAggregate = errors.New("malformed initiative aggregate")

// Initiative is the view of an initiative record handed to response
// rendering.
type Initiative struct {
	InitiativeID string `json:"initiativeId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Status       Status `json:"status"`
}

// Member is the view of a member record safe to render: the user reference,
// profile snapshot, role, and join time.
type Member struct {
	SlackUserID string `json:"slackUserId"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	JoinedAt    string `json:"joinedAt"`
	Champion    bool   `json:"champion"`
}

// Role returns the member's display role.
func (m Member) Role() string {
	if m.Champion {
		return "CHAMPION"
	}

	return "MEMBER"
}

// Aggregate is one initiative together with all of its members, as returned
// by a single partition prefix query.
type Aggregate struct {
	Initiative
	Members []Member `json:"members"`
}

// Assemble partitions a raw record collection for one initiative by its
// type discriminant. Exactly one record must be the initiative itself; the
// rest must be members. Members keep the order the store returned them in.
func Assemble(records []Record) (*Aggregate, error) {
	var (
		agg   *Aggregate
		count int
	)

	members := make([]Member, 0, len(records))

	for _, record := range records {
		switch record.Type {
		case TypeInitiative:
			count++
			agg = &Aggregate{Initiative: record.toInitiative()}
		case TypeMember:
			members = append(members, record.toMember())
		default:
			return nil, fmt.Errorf("%w: unknown record type %q", ErrMalformedAggregate, record.Type)
		}
	}

	if count != 1 {
		return nil, fmt.Errorf("%w: found %d initiative records, expected 1", ErrMalformedAggregate, count)
	}

	agg.Members = members

	return agg, nil
}

// Initiatives converts a collection of INITIATIVE records (as returned by
// an index query) into views, skipping nothing: the caller is expected to
// have queried initiative records only.
func Initiatives(records []Record) []Initiative {
	views := make([]Initiative, 0, len(records))

	for _, record := range records {
		views = append(views, record.toInitiative())
	}

	return views
}

func (r Record) toInitiative() Initiative {
	return Initiative{
		InitiativeID: r.InitiativeID,
		Name:         r.Name,
		Description:  r.Description,
		Status:       r.Status,
	}
}

func (r Record) toMember() Member {
	return Member{
		SlackUserID: r.SlackUserID,
		Name:        r.Name,
		Icon:        r.Icon,
		JoinedAt:    r.JoinedAt,
		Champion:    r.Champion,
	}
}
