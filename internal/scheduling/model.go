package scheduling

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

type ResourceType string

const (
	ResourceBed       ResourceType = "Bed"
	ResourceEquipment ResourceType = "Equipment"
	ResourceMedicine  ResourceType = "Medicine"
)

type ResourceStatus string

const (
	ResourceAvailable ResourceStatus = "Available"
	ResourceOccupied  ResourceStatus = "Occupied"
	ResourceLowStock  ResourceStatus = "Low Stock"
)

type PatientDetails struct {
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type User struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    Role            `json:"role"`
	Avatar  string          `json:"avatar"`
	Details *PatientDetails `json:"details,omitempty"`
}

type Doctor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	Avatar        string `json:"avatar"`
	Experience    int    `json:"experience"`
	ContactNumber string `json:"contactNumber"`
}

// Appointment carries denormalized patient and doctor names so that list views
// never need a join. Doctor renames cascade through UpdateDoctorProfile.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorID    string            `json:"doctorId"`
	DoctorName  string            `json:"doctorName"`
	Date        string            `json:"date"` // 2006-01-02
	Time        string            `json:"time"` // slot label, e.g. "10:00 AM"
	Status      AppointmentStatus `json:"status"`
}

type Resource struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   ResourceType   `json:"type"`
	Status ResourceStatus `json:"status"`
}

// ValidStatus reports whether s is inside the status domain for the resource type.
// Beds and equipment are either Available or Occupied; medicine is tracked as
// Available or Low Stock.
func (t ResourceType) ValidStatus(s ResourceStatus) bool {
	switch t {
	case ResourceBed, ResourceEquipment:
		return s == ResourceAvailable || s == ResourceOccupied
	case ResourceMedicine:
		return s == ResourceAvailable || s == ResourceLowStock
	}
	return false
}

// Alert is an observational signal raised by a resource status change. Alerts
// never block or reverse the change that produced them.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
