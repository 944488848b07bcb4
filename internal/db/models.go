package db

import "time"

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}

type Doctor struct {
	ID        int
	Name      string
	Specialty string
	Bio       string
	ImageURL  string
}

// DoctorAvailability is a recurring weekly window during which a doctor
// accepts appointments. DayOfWeek is 0=Monday .. 6=Sunday. Times are
// "HH:MM" strings over the half-open interval [StartTime, EndTime).
type DoctorAvailability struct {
	ID        int
	DoctorID  int
	DayOfWeek int
	StartTime string
	EndTime   string
}

type Appointment struct {
	ID        int
	PatientID int
	DoctorID  int
	Date      time.Time
	Time      string
	Reason    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Department struct {
	ID          int
	Name        string
	Description string
}

type Service struct {
	ID           int
	Name         string
	Description  string
	DepartmentID *int
}
