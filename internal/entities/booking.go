package entities

import "time"

type BookingRequest struct {
	PatientID int
	DoctorID  int
	Date      time.Time
	Time      string
	Reason    string
}

type BookingResult struct {
	AppointmentID int    `json:"appointment_id"`
	Status        string `json:"status"`
}

// AppointmentView is an appointment joined with the doctor it belongs to,
// as shown in a patient's own list.
type AppointmentView struct {
	ID              int       `json:"id"`
	DoctorID        int       `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	DoctorSpecialty string    `json:"doctor_specialty"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Reason          string    `json:"reason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
