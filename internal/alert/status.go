package alert

// Status is the alert lifecycle state
type Status string

const (
	StatusDraft        Status = "draft"
	StatusScheduled    Status = "scheduled"
	StatusBroadcasting Status = "broadcasting"
	StatusSent         Status = "sent"
	StatusCancelled    Status = "cancelled"
	StatusExpired      Status = "expired"
)

// transitions encodes the alert state machine. A fully delivered alert
// cannot be cancelled retroactively, only superseded by expiry.
var transitions = map[Status][]Status{
	StatusDraft:        {StatusScheduled, StatusBroadcasting, StatusCancelled, StatusExpired},
	StatusScheduled:    {StatusBroadcasting, StatusCancelled, StatusExpired},
	StatusBroadcasting: {StatusSent, StatusCancelled, StatusExpired},
	StatusSent:         {StatusExpired},
	StatusCancelled:    {},
	StatusExpired:      {},
}

// Valid reports whether s is a declared status
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether next is a legal successor of s
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Terminal reports whether s is an absorbing state
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
