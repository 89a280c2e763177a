package api

import "github.com/medischedule/medischedule/internal/scheduling"

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type BookAppointmentRequest struct {
	DoctorID    string `json:"doctorId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PatientName string `json:"patientName,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// StatusUpdateResponse carries a warning when the status change committed but
// the confirmation mail could not be enqueued.
type StatusUpdateResponse struct {
	Appointment *scheduling.Appointment `json:"appointment"`
	Warning     string                  `json:"warning,omitempty"`
}

type UpdateDetailsRequest struct {
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type AddResourceRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ResourceStatusRequest struct {
	Status string `json:"status"`
}

type ResourceStatusResponse struct {
	Alerts []scheduling.Alert `json:"alerts"`
}

type NotifyRequest struct {
	PatientID string `json:"patientId"`
	Message   string `json:"message"`
}

type ValidateSlotRequest struct {
	DoctorID      string `json:"doctorId"`
	PatientID     string `json:"patientId"`
	RequestedSlot string `json:"requestedSlot"`
}

type SlotsResponse struct {
	DoctorID string   `json:"doctorId"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
