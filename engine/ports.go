/*
ports.go - Interfaces to external collaborators

PURPOSE:
  The engine only produces plain data; delivering reminders and
  mirroring calendar events are platform concerns. These ports are the
  contract: the engine emits events, a collaborator schedules or
  cancels them.

IMPLEMENTATIONS:
  - api/ports.go: Log-backed implementations for dev/server use
  - Test fakes live next to the tests that need them

SEE ALSO:
  - period.go: Emits period-end reminder notifications
  - recurrence.go: Emits calendar removal requests on cancellation
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// NOTIFICATION PORT
// =============================================================================

// Notification is a reminder to be delivered at a target time.
type Notification struct {
	Identifier string
	Title      string
	Body       string
	At         time.Time
}

// NotificationPort schedules and cancels local reminders.
type NotificationPort interface {
	Schedule(ctx context.Context, n Notification) error
	Cancel(ctx context.Context, identifier string) error
}

// =============================================================================
// CALENDAR PORT
// =============================================================================

// CalendarEvent mirrors a scheduled shift into an external calendar.
type CalendarEvent struct {
	Title string
	Start time.Time
	End   time.Time
	Notes string
}

// CalendarPort adds and removes external calendar events. AddEvent
// returns the opaque external identifier stored on the scheduled
// shift.
type CalendarPort interface {
	AddEvent(ctx context.Context, ev CalendarEvent) (string, error)
	RemoveEvent(ctx context.Context, eventID string) error
}
