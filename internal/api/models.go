package api

// Availability
type AvailabilityRequest struct {
	DoctorID int    `json:"doctor_id"`
	Date     string `json:"date"` // "2006-01-02"
	Time     string `json:"time"` // "HH:MM"
}

// Booking
type BookAppointmentRequest struct {
	DoctorID int    `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

// Auth
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Prediction
type PredictionRequest struct {
	Symptoms []string `json:"symptoms"`
}
