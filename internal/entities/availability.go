package entities

import "time"

// Reasons reported when a slot is not bookable.
const (
	ReasonNoDeclaredHours = "no declared hours"
	ReasonOutsideHours    = "outside hours"
	ReasonSlotTaken       = "slot taken"
)

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type SlotListResponse struct {
	DoctorID        int       `json:"doctor_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Slots           []string  `json:"slots"`
}
