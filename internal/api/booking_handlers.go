package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"clinicare/internal/apperrors"
	"clinicare/internal/auth"
	"clinicare/internal/entities"
	"clinicare/internal/service"
	"clinicare/internal/utils"
)

const defaultSlotDurationMinutes = 30

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(utils.DateLayout, req.Date)
	if err != nil {
		writeError(w, apperrors.InvalidRequest("malformed date, expected YYYY-MM-DD"))
		return
	}

	result, err := h.Service.CheckAvailability(req.DoctorID, date, req.Time)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(utils.DateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, apperrors.InvalidRequest("malformed date, expected YYYY-MM-DD"))
		return
	}

	duration := defaultSlotDurationMinutes
	if d := r.URL.Query().Get("duration"); d != "" {
		duration, err = strconv.Atoi(d)
		if err != nil {
			writeError(w, apperrors.InvalidRequest("malformed duration"))
			return
		}
	}

	slots, err := h.Service.AvailableSlots(doctorID, date, duration)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := entities.SlotListResponse{
		DoctorID:        doctorID,
		Date:            date,
		DurationMinutes: duration,
		Slots:           []string{},
	}
	for slot := range slots {
		resp.Slots = append(resp.Slots, slot)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(utils.DateLayout, req.Date)
	if err != nil {
		writeError(w, apperrors.InvalidRequest("malformed date, expected YYYY-MM-DD"))
		return
	}

	result, err := h.Service.BookAppointment(entities.BookingRequest{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Time:      req.Time,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	appointmentID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.CancelAppointment(appointmentID, patientID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment canceled"})
}

func (h *BookingHandler) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	appointments, err := h.Service.ListAppointments(patientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if appointments == nil {
		appointments = []entities.AppointmentView{}
	}
	writeJSON(w, http.StatusOK, appointments)
}

// ConfirmAppointment is the staff-side pending -> confirmed transition,
// mounted under the protected /admin subrouter.
func (h *BookingHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.ConfirmAppointment(appointmentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment confirmed"})
}
