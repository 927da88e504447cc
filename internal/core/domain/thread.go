package domain

import "time"

// ThreadType distinguishes direct conversations from per-client team chats.
type ThreadType string

const (
	ThreadDM   ThreadType = "dm"
	ThreadTeam ThreadType = "team"
)

// MessageThread is a conversation between a fixed set of participants.
// DM threads have exactly two participants; team threads are backed by a
// client record. Eligibility for a DM pair is checked at creation time only:
// a thread stays valid even if its participants later stop sharing a client
// team.
type MessageThread struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	Type           ThreadType `json:"type" bson:"type"`
	ParticipantIDs []string   `json:"participant_ids" bson:"participant_ids"`
	ClientID       string     `json:"client_id,omitempty" bson:"client_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	LastMessageAt  time.Time  `json:"last_message_at" bson:"last_message_at"`
}

// HasParticipant reports whether userID takes part in the thread.
func (t *MessageThread) HasParticipant(userID string) bool {
	for _, id := range t.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDMBetween reports whether the thread is a direct conversation between a
// and b.
func (t *MessageThread) IsDMBetween(a, b string) bool {
	return t.Type == ThreadDM && t.HasParticipant(a) && t.HasParticipant(b)
}
