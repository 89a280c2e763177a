package store

import (
	"time"

	"github.com/medischedule/medischedule/internal/scheduling"
)

// Built-in dataset written on first load. Appointment dates are computed
// relative to the seed moment so the demo data always straddles today.

func seedDoctors() []scheduling.Doctor {
	return []scheduling.Doctor{
		{ID: "doc-1", Name: "Dr. Evelyn Reed", Specialty: "Cardiology", Avatar: "doctor-1", Experience: 15, ContactNumber: "555-0101"},
		{ID: "doc-2", Name: "Dr. Marcus Thorne", Specialty: "Neurology", Avatar: "doctor-2", Experience: 12, ContactNumber: "555-0102"},
		{ID: "doc-3", Name: "Dr. Lena Petrova", Specialty: "Pediatrics", Avatar: "doctor-3", Experience: 8, ContactNumber: "555-0103"},
		{ID: "doc-4", Name: "Dr. Samuel Chen", Specialty: "Dermatology", Avatar: "doctor-4", Experience: 10, ContactNumber: "555-0104"},
	}
}

func seedUsers() []scheduling.User {
	return []scheduling.User{
		{
			ID: "user-1", Name: "Alex Johnson", Email: "patient@example.com",
			Role: scheduling.RolePatient, Avatar: "user-patient",
			Details: &scheduling.PatientDetails{ContactNumber: "555-1234", Address: "123 Health St, Wellness City"},
		},
		{ID: "user-2", Name: "Dr. Evelyn Reed", Email: "doctor@example.com", Role: scheduling.RoleDoctor, Avatar: "user-doctor"},
		{ID: "user-3", Name: "Maria Garcia", Email: "admin@example.com", Role: scheduling.RoleAdmin, Avatar: "user-admin"},
	}
}

func seedAppointments(now time.Time) []scheduling.Appointment {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	return []scheduling.Appointment{
		{
			ID: "apt-1", PatientID: "user-1", PatientName: "Alex Johnson",
			DoctorID: "doc-1", DoctorName: "Dr. Evelyn Reed",
			Date: day(2), Time: "10:00 AM", Status: scheduling.StatusConfirmed,
		},
		{
			ID: "apt-2", PatientID: "user-p2", PatientName: "Jane Smith",
			DoctorID: "doc-1", DoctorName: "Dr. Evelyn Reed",
			Date: day(2), Time: "11:00 AM", Status: scheduling.StatusPending,
		},
		{
			ID: "apt-3", PatientID: "user-p3", PatientName: "Robert Brown",
			DoctorID: "doc-2", DoctorName: "Dr. Marcus Thorne",
			Date: day(3), Time: "02:00 PM", Status: scheduling.StatusConfirmed,
		},
		{
			ID: "apt-4", PatientID: "user-1", PatientName: "Alex Johnson",
			DoctorID: "doc-3", DoctorName: "Dr. Lena Petrova",
			Date: day(5), Time: "09:30 AM", Status: scheduling.StatusPending,
		},
		{
			ID: "apt-5", PatientID: "user-p4", PatientName: "Emily Davis",
			DoctorID: "doc-1", DoctorName: "Dr. Evelyn Reed",
			Date: day(-1), Time: "03:00 PM", Status: scheduling.StatusCompleted,
		},
	}
}

func seedResources() []scheduling.Resource {
	return []scheduling.Resource{
		{ID: "bed-101", Name: "Ward A, Bed 101", Type: scheduling.ResourceBed, Status: scheduling.ResourceAvailable},
		{ID: "bed-102", Name: "Ward A, Bed 102", Type: scheduling.ResourceBed, Status: scheduling.ResourceOccupied},
		{ID: "bed-103", Name: "Ward A, Bed 103", Type: scheduling.ResourceBed, Status: scheduling.ResourceAvailable},
		{ID: "eq-01", Name: "Ventilator 1", Type: scheduling.ResourceEquipment, Status: scheduling.ResourceAvailable},
		{ID: "eq-02", Name: "X-Ray Machine", Type: scheduling.ResourceEquipment, Status: scheduling.ResourceOccupied},
		{ID: "med-01", Name: "Paracetamol", Type: scheduling.ResourceMedicine, Status: scheduling.ResourceAvailable},
		{ID: "med-02", Name: "Amoxicillin", Type: scheduling.ResourceMedicine, Status: scheduling.ResourceLowStock},
	}
}
