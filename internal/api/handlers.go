package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medischedule/medischedule/internal/aivalidate"
	"github.com/medischedule/medischedule/internal/scheduling"
)

func signupHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := svc.Signup(r.Context(), scheduling.SignupRequest{
			Name:  req.Name,
			Email: req.Email,
			Role:  scheduling.Role(req.Role),
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

func loginHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := svc.Login(r.Context(), req.Email)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func logoutHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func sessionHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.CurrentUser(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func listDoctorsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func updateDoctorHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireRole(w, r, scheduling.RoleDoctor, scheduling.RoleAdmin); !ok {
			return
		}

		var doc scheduling.Doctor
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		doc.ID = chi.URLParam(r, "id")

		updated, err := svc.UpdateDoctorProfile(r.Context(), doc)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func updateUserDetailsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateDetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := svc.UpdateUserProfile(r.Context(), chi.URLParam(r, "id"), scheduling.PatientDetails{
			ContactNumber: req.ContactNumber,
			Address:       req.Address,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func slotsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := r.URL.Query().Get("doctorId")
		date := r.URL.Query().Get("date")
		if doctorID == "" || date == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "doctorId and date are required")
			return
		}

		slots, err := svc.OpenSlots(r.Context(), doctorID, date)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SlotsResponse{DoctorID: doctorID, Date: date, Slots: slots})
	}
}

func listAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointments, err := svc.AppointmentsFor(r.Context(), actorFrom(r))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointments)
	}
}

func bookAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Book(r.Context(), scheduling.BookingRequest{
			Actor:       actorFrom(r),
			DoctorID:    req.DoctorID,
			Date:        req.Date,
			Time:        req.Time,
			PatientName: req.PatientName,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func statusHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.SetStatus(r.Context(), chi.URLParam(r, "id"), scheduling.AppointmentStatus(req.Status), actorFrom(r))
		if err != nil {
			// The mutation is committed when only the notification enqueue
			// failed; report it as a warning, not a failure.
			if errors.Is(err, scheduling.ErrNotificationTrigger) {
				writeJSON(w, http.StatusOK, StatusUpdateResponse{Appointment: appt, Warning: err.Error()})
				return
			}
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, StatusUpdateResponse{Appointment: appt})
	}
}

func validateSlotHandler(svc *scheduling.Service, ai *aivalidate.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.DoctorID == "" || req.RequestedSlot == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "doctorId and requestedSlot are required")
			return
		}

		existing, err := svc.DoctorSchedule(r.Context(), req.DoctorID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		result, err := ai.Validate(r.Context(), aivalidate.Request{
			DoctorID:             req.DoctorID,
			PatientID:            req.PatientID,
			RequestedSlot:        req.RequestedSlot,
			ExistingAppointments: existing,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func listResourcesHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources, err := svc.Resources(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resources)
	}
}

func addResourceHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireRole(w, r, scheduling.RoleAdmin); !ok {
			return
		}

		var req AddResourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		res, err := svc.AddResource(r.Context(), req.Name, scheduling.ResourceType(req.Type))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

func resourceStatusHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireRole(w, r, scheduling.RoleAdmin); !ok {
			return
		}

		var req ResourceStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		alerts, err := svc.SetResourceStatus(r.Context(), chi.URLParam(r, "id"), scheduling.ResourceStatus(req.Status))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if alerts == nil {
			alerts = []scheduling.Alert{}
		}

		writeJSON(w, http.StatusOK, ResourceStatusResponse{Alerts: alerts})
	}
}

func notifyHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireRole(w, r, scheduling.RoleAdmin); !ok {
			return
		}

		var req NotifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.NotifyPatient(r.Context(), req.PatientID, req.Message); err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "queued"})
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrMissingPatientName):
		writeError(w, http.StatusBadRequest, "missing_patient_name", err.Error())
	case errors.Is(err, scheduling.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, scheduling.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, scheduling.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "no_session", err.Error())
	case errors.Is(err, scheduling.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, scheduling.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, "resource_not_found", err.Error())
	case errors.Is(err, scheduling.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", "this time slot is no longer available, please select another time")
	case errors.Is(err, scheduling.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, scheduling.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, scheduling.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, aivalidate.ErrServiceUnavailable):
		writeError(w, http.StatusBadGateway, "ai_service_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
