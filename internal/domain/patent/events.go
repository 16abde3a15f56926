package patent

import "time"

// EventType names a portfolio change.
type EventType string

const (
	EventCreated      EventType = "patent.created"
	EventImported     EventType = "patent.imported"
	EventUpdated      EventType = "patent.updated"
	EventDeleted      EventType = "patent.deleted"
	EventReminderSent EventType = "reminder.sent"
)

// Event is published after a successful portfolio change.
type Event struct {
	Type       EventType `json:"type"`
	PatentID   string    `json:"patentId"`
	Name       string    `json:"name,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent builds an Event for p.
func NewEvent(typ EventType, p *Patent, at time.Time) Event {
	e := Event{Type: typ, OccurredAt: at}
	if p != nil {
		e.PatentID = p.ID
		e.Name = p.Name
	}
	return e
}

//Personal.AI order the ending
