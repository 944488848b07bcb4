package service

import (
	"iter"
	"log"
	"sort"
	"time"

	"clinicare/internal/apperrors"
	"clinicare/internal/db"
	"clinicare/internal/entities"
	"clinicare/internal/utils"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
)

// BookingStore is the persistence surface the resolver needs. Implemented by
// repository.BookingRepository; tests use an in-memory fake.
type BookingStore interface {
	DoctorByID(doctorID int) (*db.Doctor, error)
	PatientByID(patientID int) (*db.User, error)
	AvailabilityWindows(doctorID, dayOfWeek int) ([]db.DoctorAvailability, error)
	SlotTaken(doctorID int, date time.Time, timeOfDay string) (bool, error)
	InsertAppointment(a *db.Appointment) error
	AppointmentByID(id int) (*db.Appointment, error)
	UpdateAppointmentStatus(id int, status string) error
	AppointmentTimesForDoctorDate(doctorID int, date time.Time) ([]string, error)
	AppointmentsForPatient(patientID int) ([]entities.AppointmentView, error)
}

// Notifier is told about booking lifecycle events. Sends must never fail the
// booking; implementations log and move on.
type Notifier interface {
	AppointmentBooked(patient *db.User, doctor *db.Doctor, a *db.Appointment)
	AppointmentCanceled(patient *db.User, doctor *db.Doctor, a *db.Appointment)
}

type BookingService struct {
	Repo     BookingStore
	notifier Notifier
}

func NewBookingService(repo BookingStore, notifier Notifier) *BookingService {
	return &BookingService{Repo: repo, notifier: notifier}
}

// CheckAvailability reports whether the (doctor, date, time) slot is bookable.
// Pure read, no side effects.
func (s *BookingService) CheckAvailability(doctorID int, date time.Time, timeOfDay string) (*entities.AvailabilityResult, error) {
	doctor, err := s.Repo.DoctorByID(doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor not found")
	}

	minutes, err := utils.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, apperrors.InvalidRequest("malformed time")
	}

	windows, err := s.Repo.AvailabilityWindows(doctorID, utils.DayOfWeek(date))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return &entities.AvailabilityResult{Reason: entities.ReasonNoDeclaredHours}, nil
	}

	if !withinAnyWindow(minutes, windows) {
		return &entities.AvailabilityResult{Reason: entities.ReasonOutsideHours}, nil
	}

	taken, err := s.Repo.SlotTaken(doctorID, date, utils.FormatTimeOfDay(minutes))
	if err != nil {
		return nil, err
	}
	if taken {
		return &entities.AvailabilityResult{Reason: entities.ReasonSlotTaken}, nil
	}

	return &entities.AvailabilityResult{Available: true}, nil
}

// BookAppointment validates the request, resolves availability and creates a
// pending appointment. The store insert is transactional, so of two
// concurrent bookings for the same slot exactly one wins; the other gets the
// slot-taken conflict.
func (s *BookingService) BookAppointment(req entities.BookingRequest) (*entities.BookingResult, error) {
	patient, err := s.Repo.PatientByID(req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient not found")
	}

	if req.Date.Before(utils.Today()) {
		return nil, apperrors.InvalidRequest("past date")
	}

	minutes, err := utils.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, apperrors.InvalidRequest("malformed time")
	}
	timeOfDay := utils.FormatTimeOfDay(minutes)

	availability, err := s.CheckAvailability(req.DoctorID, req.Date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, apperrors.SlotUnavailable(availability.Reason)
	}

	appointment := &db.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      timeOfDay,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	if err := s.Repo.InsertAppointment(appointment); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		doctor, err := s.Repo.DoctorByID(req.DoctorID)
		if err != nil || doctor == nil {
			log.Printf("Appointment %d booked but doctor lookup for notification failed: %v", appointment.ID, err)
		} else {
			s.notifier.AppointmentBooked(patient, doctor, appointment)
		}
	}

	return &entities.BookingResult{AppointmentID: appointment.ID, Status: appointment.Status}, nil
}

// CancelAppointment moves the appointment to canceled. Only the patient who
// owns it may cancel. Canceling an already-canceled appointment is a no-op.
func (s *BookingService) CancelAppointment(appointmentID, requesterID int) error {
	appointment, err := s.Repo.AppointmentByID(appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return apperrors.NotFound("appointment not found")
	}
	if appointment.PatientID != requesterID {
		return apperrors.Forbidden("appointment belongs to another patient")
	}
	if appointment.Status == StatusCanceled {
		return nil
	}

	if err := s.Repo.UpdateAppointmentStatus(appointmentID, StatusCanceled); err != nil {
		return err
	}

	if s.notifier != nil {
		patient, perr := s.Repo.PatientByID(appointment.PatientID)
		doctor, derr := s.Repo.DoctorByID(appointment.DoctorID)
		if perr != nil || derr != nil || patient == nil || doctor == nil {
			log.Printf("Appointment %d canceled but notification lookup failed: %v %v", appointmentID, perr, derr)
		} else {
			appointment.Status = StatusCanceled
			s.notifier.AppointmentCanceled(patient, doctor, appointment)
		}
	}
	return nil
}

// ConfirmAppointment is the staff-side pending -> confirmed transition.
func (s *BookingService) ConfirmAppointment(appointmentID int) error {
	appointment, err := s.Repo.AppointmentByID(appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return apperrors.NotFound("appointment not found")
	}
	switch appointment.Status {
	case StatusConfirmed:
		return nil
	case StatusCanceled:
		return apperrors.InvalidRequest("appointment is canceled")
	}
	return s.Repo.UpdateAppointmentStatus(appointmentID, StatusConfirmed)
}

// AvailableSlots partitions the doctor's windows on date into
// durationMinutes-wide slots and drops the ones already booked. The returned
// sequence is finite, ascending, duplicate-free and restartable.
func (s *BookingService) AvailableSlots(doctorID int, date time.Time, durationMinutes int) (iter.Seq[string], error) {
	if durationMinutes <= 0 {
		return nil, apperrors.InvalidRequest("slot duration must be positive")
	}

	doctor, err := s.Repo.DoctorByID(doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor not found")
	}

	windows, err := s.Repo.AvailabilityWindows(doctorID, utils.DayOfWeek(date))
	if err != nil {
		return nil, err
	}

	bookedTimes, err := s.Repo.AppointmentTimesForDoctorDate(doctorID, date)
	if err != nil {
		return nil, err
	}
	booked := make(map[int]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		m, err := utils.ParseTimeOfDay(t)
		if err != nil {
			log.Printf("Skipping unparsable booked time %q for doctor %d: %v", t, doctorID, err)
			continue
		}
		booked[m] = true
	}

	starts := slotStarts(windows, durationMinutes)
	return func(yield func(string) bool) {
		for _, start := range starts {
			if booked[start] {
				continue
			}
			if !yield(utils.FormatTimeOfDay(start)) {
				return
			}
		}
	}, nil
}

func (s *BookingService) ListAppointments(patientID int) ([]entities.AppointmentView, error) {
	patient, err := s.Repo.PatientByID(patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient not found")
	}
	return s.Repo.AppointmentsForPatient(patientID)
}

func withinAnyWindow(minutes int, windows []db.DoctorAvailability) bool {
	for _, w := range windows {
		start, errStart := utils.ParseTimeOfDay(w.StartTime)
		end, errEnd := utils.ParseTimeOfDay(w.EndTime)
		if errStart != nil || errEnd != nil {
			log.Printf("Skipping unparsable availability window %d (%s-%s)", w.ID, w.StartTime, w.EndTime)
			continue
		}
		if minutes >= start && minutes < end {
			return true
		}
	}
	return false
}

// slotStarts expands windows into sorted, duplicate-free slot start minutes.
// Overlapping windows for the same day are tolerated: duplicates from the
// union are collapsed here.
func slotStarts(windows []db.DoctorAvailability, durationMinutes int) []int {
	seen := make(map[int]bool)
	var starts []int
	for _, w := range windows {
		start, errStart := utils.ParseTimeOfDay(w.StartTime)
		end, errEnd := utils.ParseTimeOfDay(w.EndTime)
		if errStart != nil || errEnd != nil {
			continue
		}
		for t := start; t+durationMinutes <= end; t += durationMinutes {
			if !seen[t] {
				seen[t] = true
				starts = append(starts, t)
			}
		}
	}
	sort.Ints(starts)
	return starts
}
