package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medischedule/medischedule/internal/notify"
	redisclient "github.com/medischedule/medischedule/internal/redis"
)

// Store is the collection snapshot surface the service mutates. Implemented
// by the store package; the service is the only writer.
type Store interface {
	Users(ctx context.Context) ([]User, error)
	SaveUsers(ctx context.Context, users []User) error
	Doctors(ctx context.Context) ([]Doctor, error)
	SaveDoctors(ctx context.Context, doctors []Doctor) error
	Appointments(ctx context.Context) ([]Appointment, error)
	SaveAppointments(ctx context.Context, appointments []Appointment) error
	Resources(ctx context.Context) ([]Resource, error)
	SaveResources(ctx context.Context, resources []Resource) error
	SessionUser(ctx context.Context) (*User, error)
	SetSessionUser(ctx context.Context, u User) error
	ClearSessionUser(ctx context.Context) error
}

// Actor identifies who is driving an operation.
type Actor struct {
	ID   string
	Name string
	Role Role
}

type Service struct {
	store  Store
	locker redisclient.Locker
	queue  notify.Queue
	events EventRecorder
	now    func() time.Time
}

func NewService(store Store, locker redisclient.Locker, queue notify.Queue, events EventRecorder) *Service {
	return &Service{
		store:  store,
		locker: locker,
		queue:  queue,
		events: events,
		now:    time.Now,
	}
}

type BookingRequest struct {
	Actor       Actor
	DoctorID    string
	Date        string // 2006-01-02
	Time        string // slot label
	PatientName string // required when the actor is an admin booking on behalf of a walk-in
}

// Book validates a requested (doctor, date, time) against the open slot set
// and commits a new Pending appointment. The availability re-check and the
// commit run under a per-slot lock so two sessions cannot book the same slot.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if !req.Actor.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Actor.Role)
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if !KnownSlot(req.Time) {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrValidation, req.Time)
	}
	if req.Actor.Role == RoleAdmin && strings.TrimSpace(req.PatientName) == "" {
		return nil, ErrMissingPatientName
	}

	doctor, err := s.findDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, req.DoctorID, req.Date, req.Time, func(lockCtx context.Context) error {
		appointments, err := s.store.Appointments(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}

		open := AvailableSlots(req.DoctorID, req.Date, appointments, s.now())
		if !containsSlot(open, req.Time) {
			return ErrSlotUnavailable
		}

		patientID := req.Actor.ID
		patientName := req.Actor.Name
		if req.Actor.Role == RoleAdmin {
			// Admin bookings are for walk-ins with no user account.
			patientID = "patient-" + uuid.NewString()
			patientName = req.PatientName
		}

		appt := Appointment{
			ID:          "apt-" + uuid.NewString(),
			PatientID:   patientID,
			PatientName: patientName,
			DoctorID:    doctor.ID,
			DoctorName:  doctor.Name,
			Date:        req.Date,
			Time:        req.Time,
			Status:      StatusPending,
		}

		appointments = append(appointments, appt)
		if err := s.store.SaveAppointments(lockCtx, appointments); err != nil {
			return fmt.Errorf("commit appointment: %w", err)
		}

		created = &appt

		s.logEvent(lockCtx, EventAppointmentCreated, appt.ID, map[string]any{
			"doctor_id":  appt.DoctorID,
			"patient_id": appt.PatientID,
			"date":       appt.Date,
			"time":       appt.Time,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

// SetStatus applies a status transition to an appointment. The transition
// table is closed: Pending may become Confirmed or Cancelled, Confirmed may
// become Completed or Cancelled, and terminal states accept nothing.
//
// Confirmation triggers a best-effort mail enqueue after the commit; an
// enqueue failure is reported as ErrNotificationTrigger alongside the already
// updated appointment and is never rolled back.
func (s *Service) SetStatus(ctx context.Context, appointmentID string, newStatus AppointmentStatus, actor Actor) (*Appointment, error) {
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	idx := -1
	for i := range appointments {
		if appointments[i].ID == appointmentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrAppointmentNotFound
	}

	appt := appointments[idx]
	tr := transition{from: appt.Status, to: newStatus}

	if !legalTransitions[tr] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, appt.Status, newStatus)
	}
	if !capabilities[actor.Role][tr] {
		return nil, ErrForbidden
	}
	if actor.Role == RolePatient {
		if appt.PatientID != actor.ID {
			return nil, ErrForbidden
		}
		if !s.dateInFuture(appt.Date) {
			return nil, ErrForbidden
		}
	}

	appointments[idx].Status = newStatus
	if err := s.store.SaveAppointments(ctx, appointments); err != nil {
		return nil, fmt.Errorf("commit status change: %w", err)
	}
	updated := appointments[idx]

	s.logEvent(ctx, eventForStatus(newStatus), updated.ID, map[string]any{
		"from": string(appt.Status),
		"to":   string(newStatus),
	})

	if newStatus == StatusConfirmed {
		if err := s.sendConfirmationMail(ctx, updated); err != nil {
			return &updated, fmt.Errorf("%w: %v", ErrNotificationTrigger, err)
		}
	}

	return &updated, nil
}

// OpenSlots returns the bookable slots for a doctor on a date.
func (s *Service) OpenSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if _, err := s.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return AvailableSlots(doctorID, date, appointments, s.now()), nil
}

// AppointmentsFor lists appointments visible to the actor: patients see their
// own, doctors see their schedule, admins see everything.
func (s *Service) AppointmentsFor(ctx context.Context, actor Actor) ([]Appointment, error) {
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	switch actor.Role {
	case RoleAdmin:
		return appointments, nil
	case RoleDoctor:
		return filterAppointments(appointments, func(a Appointment) bool { return a.DoctorID == actor.ID }), nil
	case RolePatient:
		return filterAppointments(appointments, func(a Appointment) bool { return a.PatientID == actor.ID }), nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, actor.Role)
}

// DoctorSchedule returns the doctor's booked slots as "<date> at <time>"
// strings, the shape the slot validation service expects.
func (s *Service) DoctorSchedule(ctx context.Context, doctorID string) ([]string, error) {
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	var booked []string
	for _, a := range appointments {
		if a.DoctorID != doctorID {
			continue
		}
		if a.Status == StatusPending || a.Status == StatusConfirmed {
			booked = append(booked, fmt.Sprintf("%s at %s", a.Date, a.Time))
		}
	}
	return booked, nil
}

type transition struct {
	from, to AppointmentStatus
}

var legalTransitions = map[transition]bool{
	{StatusPending, StatusConfirmed}:   true,
	{StatusPending, StatusCancelled}:   true,
	{StatusConfirmed, StatusCompleted}: true,
	{StatusConfirmed, StatusCancelled}: true,
}

// capabilities is the role capability table, checked once at the operation
// boundary. Staff confirm, complete and cancel pending appointments; patients
// may only cancel their own upcoming ones.
var capabilities = map[Role]map[transition]bool{
	RoleAdmin: {
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
	},
	RoleDoctor: {
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
	},
	RolePatient: {
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
	},
}

func eventForStatus(st AppointmentStatus) string {
	switch st {
	case StatusConfirmed:
		return EventAppointmentConfirmed
	case StatusCompleted:
		return EventAppointmentCompleted
	default:
		return EventAppointmentCancelled
	}
}

func (s *Service) sendConfirmationMail(ctx context.Context, appt Appointment) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	var patient *User
	for i := range users {
		if users[i].ID == appt.PatientID && users[i].Role == RolePatient {
			patient = &users[i]
			break
		}
	}
	if patient == nil {
		// Walk-in patients have no account and no address to notify.
		return nil
	}

	when, err := time.Parse(dateLayout, appt.Date)
	if err != nil {
		return fmt.Errorf("parse appointment date: %w", err)
	}

	doc := notify.Document{
		To: []string{patient.Email},
		Message: notify.Message{
			Subject: "Your Appointment is Confirmed!",
			HTML: fmt.Sprintf(`<h1>Appointment Confirmation</h1>
<p>Hello %s,</p>
<p>This is a confirmation that your appointment with <strong>%s</strong> has been scheduled successfully.</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p>Thank you for choosing MediSchedule.</p>`,
				patient.Name, appt.DoctorName, when.Format("Mon, Jan 2, 2006"), appt.Time),
		},
		CreatedAt: s.now(),
	}

	return s.queue.Enqueue(ctx, doc)
}

func (s *Service) findDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	doctors, err := s.store.Doctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	for i := range doctors {
		if doctors[i].ID == doctorID {
			return &doctors[i], nil
		}
	}
	return nil, ErrDoctorNotFound
}

// dateInFuture reports whether the calendar day is strictly after today.
func (s *Service) dateInFuture(date string) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.After(today)
}

func (s *Service) logEvent(ctx context.Context, eventType, entityID string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	ev := Event{
		EventType: eventType,
		EntityID:  entityID,
		Payload:   data,
		CreatedAt: s.now(),
	}

	if err := s.events.Record(ctx, ev); err != nil {
		log.Printf("failed to record event %s for %s: %v", eventType, entityID, err)
	}
}

func containsSlot(slots []string, label string) bool {
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}

func filterAppointments(in []Appointment, keep func(Appointment) bool) []Appointment {
	out := make([]Appointment, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
