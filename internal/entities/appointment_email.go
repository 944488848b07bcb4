package entities

type AppointmentEmailData struct {
	PatientName   string
	DoctorName    string
	DateFormatted string
	TimeFormatted string
	Status        string
	CurrentYear   int
}
