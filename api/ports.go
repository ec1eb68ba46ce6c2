/*
ports.go - Log-backed collaborator ports

PURPOSE:
  Development implementations of the engine's notification and
  calendar ports. The real product wires platform delivery here;
  the server only needs something that records the emitted events.

SEE ALSO:
  - engine/ports.go: Port contracts
  - scheduler.go: Emits reminder events through NotificationPort
*/
package api

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/warp/shift-engine/engine"
)

// LogNotifier logs scheduled reminders instead of delivering them.
type LogNotifier struct{}

func (LogNotifier) Schedule(_ context.Context, n engine.Notification) error {
	log.Printf("[Notify] schedule %s at %s: %s", n.Identifier, n.At.Format("2006-01-02 15:04"), n.Title)
	return nil
}

func (LogNotifier) Cancel(_ context.Context, identifier string) error {
	log.Printf("[Notify] cancel %s", identifier)
	return nil
}

// LogCalendar logs calendar mirroring and fabricates event IDs.
type LogCalendar struct{}

func (LogCalendar) AddEvent(_ context.Context, ev engine.CalendarEvent) (string, error) {
	id := uuid.NewString()
	log.Printf("[Calendar] add %q %s - %s (event %s)", ev.Title,
		ev.Start.Format("2006-01-02 15:04"), ev.End.Format("15:04"), id)
	return id, nil
}

func (LogCalendar) RemoveEvent(_ context.Context, eventID string) error {
	log.Printf("[Calendar] remove event %s", eventID)
	return nil
}
