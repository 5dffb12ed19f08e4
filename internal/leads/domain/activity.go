package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies an interaction logged against a lead.
type ActivityType string

const (
	ActivityEmail        ActivityType = "email"
	ActivityCall         ActivityType = "call"
	ActivityMeeting      ActivityType = "meeting"
	ActivityNote         ActivityType = "note"
	ActivityStatusChange ActivityType = "status_change"
)

// ActivityTypeNames lists the accepted activity types.
func ActivityTypeNames() []string {
	return []string{
		string(ActivityEmail),
		string(ActivityCall),
		string(ActivityMeeting),
		string(ActivityNote),
		string(ActivityStatusChange),
	}
}

// CountsAsContact reports whether logging this activity means the lead was contacted.
func (t ActivityType) CountsAsContact() bool {
	switch t {
	case ActivityEmail, ActivityCall, ActivityMeeting:
		return true
	}
	return false
}

// Activity is an entry in a lead's timeline.
type Activity struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Type        ActivityType
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// StatusChangeActivity is the timeline entry written whenever a lead's status moves.
func StatusChangeActivity(leadID uuid.UUID, from, to Status) Activity {
	return Activity{
		LeadID:      leadID,
		Type:        ActivityStatusChange,
		Description: "Status changed from " + string(from) + " to " + string(to),
		Metadata:    map[string]any{"oldStatus": string(from), "newStatus": string(to)},
	}
}
