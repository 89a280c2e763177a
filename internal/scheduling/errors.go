package scheduling

import "errors"

var (
	ErrValidation          = errors.New("invalid request")
	ErrMissingPatientName  = errors.New("patient name is required for admin bookings")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrSlotBeingBooked     = errors.New("slot is currently being booked, please retry")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrForbidden           = errors.New("operation not permitted for this role")
	ErrNoSession           = errors.New("no session user")

	// ErrNotificationTrigger is a warning, not a failure: the status change it
	// accompanies has already been committed and is not rolled back.
	ErrNotificationTrigger = errors.New("could not enqueue notification")
)
