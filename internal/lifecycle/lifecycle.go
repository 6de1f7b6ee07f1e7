// Package lifecycle defines the candidate engagement state machine.
//
// Automated status graph:
//
//	PENDING ──► EMAILED ──► EMAIL_OPENED ──► REPLIED
//	                 └──────────────────────────┘
//
// EMAILED is entered by a confirmed send, never by a tracking event. An open
// event advances EMAILED to EMAIL_OPENED; a reply advances EMAILED or
// EMAIL_OPENED to REPLIED. Every other (status, event) pair is a no-op, so
// duplicate webhook deliveries can never regress or skip a status.
//
// INTERESTED and NOT_INTERESTED are terminal and reachable only through a
// manual override, which bypasses this machine entirely.
package lifecycle

import "fmt"

// Status values mirror the candidates.status column.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusEmailed       Status = "EMAILED"
	StatusEmailOpened   Status = "EMAIL_OPENED"
	StatusReplied       Status = "REPLIED"
	StatusInterested    Status = "INTERESTED"
	StatusNotInterested Status = "NOT_INTERESTED"
)

// EventKind is a tracking signal that may advance a candidate's status.
type EventKind string

const (
	EventOpen  EventKind = "open"
	EventReply EventKind = "reply"
)

// ParseStatus converts a raw string to a Status, returning an error for
// values outside the six known statuses. Used to validate manual overrides.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusEmailed, StatusEmailOpened, StatusReplied,
		StatusInterested, StatusNotInterested:
		return st, nil
	}
	return "", fmt.Errorf("unknown candidate status %q", s)
}

// NextStatus returns the status an automated event moves a candidate to.
// The second return value is false when the event leaves the status
// unchanged, which is the case for every pair outside the transition table.
func NextStatus(current Status, event EventKind) (Status, bool) {
	switch event {
	case EventOpen:
		if current == StatusEmailed {
			return StatusEmailOpened, true
		}
	case EventReply:
		if current == StatusEmailed || current == StatusEmailOpened {
			return StatusReplied, true
		}
	}
	return current, false
}
