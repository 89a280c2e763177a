package scheduling

import (
	"context"
	"time"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventResourceAlert        = "RESOURCE_ALERT"
)

type Event struct {
	ID        int64
	EventType string
	EntityID  string
	Payload   []byte
	CreatedAt time.Time
}

// EventRecorder appends to the audit trail. Recording is observational:
// failures are logged by the service and never surfaced to the caller.
type EventRecorder interface {
	Record(ctx context.Context, ev Event) error
}

// NoopRecorder is used when no Postgres DSN is configured.
type NoopRecorder struct{}

func (NoopRecorder) Record(ctx context.Context, ev Event) error { return nil }
