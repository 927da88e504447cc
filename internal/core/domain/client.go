package domain

import "time"

// Client is a shared case record. DateAdded is the enrollment date and is
// immutable once set; the team is the set of clinician user IDs allowed
// full access to the record.
type Client struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	DateAdded     time.Time `json:"date_added" bson:"date_added"`
	TeamMemberIDs []string  `json:"team_member_ids" bson:"team_member_ids"`
}

// HasTeamMember reports whether userID is on the client's team.
func (c *Client) HasTeamMember(userID string) bool {
	for _, id := range c.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FirstTeamMemberID returns the first team member id, or "" when the team is
// empty. The scheduler uses it to pick the default milestone assignee.
func (c *Client) FirstTeamMemberID() string {
	if len(c.TeamMemberIDs) == 0 {
		return ""
	}
	return c.TeamMemberIDs[0]
}
