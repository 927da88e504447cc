package domain

import "time"

// Milestone labels for system-generated review tasks. Matching is by label
// plus the IsSystemGenerated flag, so the labels are part of the data
// contract and must not change for existing deployments.
const (
	MilestoneThirtyDayLabel = "Conduct 1st Progress Review (30 days post-intake)"
	MilestoneSixtyDayLabel  = "Conduct Follow-up Progress Review (60 days after 1st)"
)

// ToDoTask is a unit of work attached to a client record. Tasks are either
// created manually or generated by the milestone scheduler
// (IsSystemGenerated).
type ToDoTask struct {
	ID                string     `json:"id" bson:"_id,omitempty"`
	ClientID          string     `json:"client_id" bson:"client_id"`
	Description       string     `json:"description" bson:"description"`
	IsDone            bool       `json:"is_done" bson:"is_done"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
	AddedBy           Ref        `json:"added_by" bson:"added_by"`
	Assignees         []Ref      `json:"assignees" bson:"assignees"`
	DueDate           *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CompletedBy       *Ref       `json:"completed_by,omitempty" bson:"completed_by,omitempty"`
	IsSystemGenerated bool       `json:"is_system_generated" bson:"is_system_generated"`
}

// DueOn reports whether the task's due date falls on the same calendar day
// (UTC) as day. Tasks without a due date never match.
func (t *ToDoTask) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
