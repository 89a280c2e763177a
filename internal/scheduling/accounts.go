package scheduling

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medischedule/medischedule/internal/notify"
)

type SignupRequest struct {
	Name  string
	Email string
	Role  Role
}

// Signup creates a user account and sets it as the session user. Doctor-role
// signups also create the matching Doctor record so the two stay 1:1 by id.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, ErrEmailTaken
		}
	}

	user := User{
		ID:     "user-" + uuid.NewString(),
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Avatar: "user-" + string(req.Role),
	}
	if req.Role == RolePatient {
		user.Details = &PatientDetails{}
	}

	users = append(users, user)
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("commit user: %w", err)
	}

	if req.Role == RoleDoctor {
		doctors, err := s.store.Doctors(ctx)
		if err != nil {
			return nil, fmt.Errorf("load doctors: %w", err)
		}
		doctors = append(doctors, Doctor{
			ID:            user.ID,
			Name:          user.Name,
			Specialty:     "General Medicine",
			Avatar:        "user-doctor",
			Experience:    0,
			ContactNumber: "Not specified",
		})
		if err := s.store.SaveDoctors(ctx, doctors); err != nil {
			return nil, fmt.Errorf("commit doctor record: %w", err)
		}
	}

	if err := s.store.SetSessionUser(ctx, user); err != nil {
		return nil, fmt.Errorf("set session user: %w", err)
	}

	return &user, nil
}

// Login looks a user up by email, case-insensitively. Credential verification
// is an external concern; this mirrors the original's lookup-only flow.
func (s *Service) Login(ctx context.Context, email string) (*User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			if err := s.store.SetSessionUser(ctx, users[i]); err != nil {
				return nil, fmt.Errorf("set session user: %w", err)
			}
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearSessionUser(ctx)
}

// CurrentUser returns the session user, or ErrNoSession when nobody is
// logged in.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	return s.store.SessionUser(ctx)
}

// UpdateDoctorProfile replaces a doctor's profile and cascades the name to
// the denormalized DoctorName on every appointment and to the user record.
func (s *Service) UpdateDoctorProfile(ctx context.Context, doc Doctor) (*Doctor, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("%w: doctor name is required", ErrValidation)
	}
	if doc.Experience < 0 {
		return nil, fmt.Errorf("%w: experience must be >= 0", ErrValidation)
	}

	doctors, err := s.store.Doctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}

	idx := -1
	for i := range doctors {
		if doctors[i].ID == doc.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrDoctorNotFound
	}

	doctors[idx] = doc
	if err := s.store.SaveDoctors(ctx, doctors); err != nil {
		return nil, fmt.Errorf("commit doctor: %w", err)
	}

	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	changed := false
	for i := range appointments {
		if appointments[i].DoctorID == doc.ID && appointments[i].DoctorName != doc.Name {
			appointments[i].DoctorName = doc.Name
			changed = true
		}
	}
	if changed {
		if err := s.store.SaveAppointments(ctx, appointments); err != nil {
			return nil, fmt.Errorf("cascade doctor name: %w", err)
		}
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		if users[i].ID == doc.ID && users[i].Name != doc.Name {
			users[i].Name = doc.Name
			if err := s.store.SaveUsers(ctx, users); err != nil {
				return nil, fmt.Errorf("cascade user name: %w", err)
			}
			break
		}
	}

	return &doctors[idx], nil
}

// UpdateUserProfile sets a patient's contact details.
func (s *Service) UpdateUserProfile(ctx context.Context, userID string, details PatientDetails) (*User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		if users[i].ID == userID {
			users[i].Details = &details
			if err := s.store.SaveUsers(ctx, users); err != nil {
				return nil, fmt.Errorf("commit user details: %w", err)
			}
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// NotifyPatient queues a free-form admin message to a patient's email.
func (s *Service) NotifyPatient(ctx context.Context, patientID, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	var patient *User
	for i := range users {
		if users[i].ID == patientID && users[i].Role == RolePatient {
			patient = &users[i]
			break
		}
	}
	if patient == nil {
		return ErrUserNotFound
	}

	doc := notify.Document{
		To: []string{patient.Email},
		Message: notify.Message{
			Subject: "A message from MediSchedule",
			HTML:    fmt.Sprintf("<p>%s</p>", message),
		},
		CreatedAt: s.now(),
	}
	// Unlike a confirmation mail, the enqueue is the whole operation here, so
	// a failure is fatal rather than a warning.
	if err := s.queue.Enqueue(ctx, doc); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}
	return nil
}

// Doctors lists every doctor.
func (s *Service) Doctors(ctx context.Context) ([]Doctor, error) {
	return s.store.Doctors(ctx)
}

// Users lists every user account.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	return s.store.Users(ctx)
}
