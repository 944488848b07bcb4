package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"clinicare/internal/apperrors"
	"clinicare/internal/db"
	"clinicare/internal/entities"
	"clinicare/internal/utils"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) DoctorByID(doctorID int) (*db.Doctor, error) {
	var d db.Doctor
	err := r.DB.QueryRow(`
		SELECT id, name, specialty, COALESCE(bio, ''), COALESCE(image_url, '')
		FROM doctors WHERE id = $1`, doctorID,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.Bio, &d.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying doctor %d: %w", doctorID, err)
	}
	return &d, nil
}

func (r *BookingRepository) PatientByID(patientID int) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(`
		SELECT id, username, email, password_hash, COALESCE(phone, ''), created_at
		FROM users WHERE id = $1`, patientID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying patient %d: %w", patientID, err)
	}
	return &u, nil
}

func (r *BookingRepository) AvailabilityWindows(doctorID, dayOfWeek int) ([]db.DoctorAvailability, error) {
	query := `
		SELECT id, doctor_id, day_of_week,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM doctor_availability
		WHERE doctor_id = $1 AND day_of_week = $2
		ORDER BY start_time`

	rows, err := r.DB.Query(query, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("error querying availability windows: %w", err)
	}
	defer rows.Close()

	var windows []db.DoctorAvailability
	for rows.Next() {
		var w db.DoctorAvailability
		if err := rows.Scan(&w.ID, &w.DoctorID, &w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning availability window: %w", err)
		}
		windows = append(windows, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating availability rows: %w", err)
	}
	return windows, nil
}

func (r *BookingRepository) SlotTaken(doctorID int, date time.Time, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND appointment_date = $2::date
			  AND appointment_time = $3::time
			  AND status IN ('pending', 'confirmed'))`

	var taken bool
	err := r.DB.QueryRow(query, doctorID, date.Format(utils.DateLayout), timeOfDay).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("error checking slot occupancy: %w", err)
	}
	return taken, nil
}

// InsertAppointment creates the row inside a transaction, rechecking the slot
// before the insert. Two concurrent bookings for the same slot cannot both
// commit: the partial unique index on (doctor_id, appointment_date,
// appointment_time) for pending/confirmed rows rejects the loser, which is
// surfaced as a slot conflict instead of a duplicate booking.
func (r *BookingRepository) InsertAppointment(a *db.Appointment) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	var taken bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND appointment_date = $2::date
			  AND appointment_time = $3::time
			  AND status IN ('pending', 'confirmed'))`,
		a.DoctorID, a.Date.Format(utils.DateLayout), a.Time).Scan(&taken)
	if err != nil {
		return fmt.Errorf("error rechecking slot: %w", err)
	}
	if taken {
		return apperrors.SlotUnavailable(entities.ReasonSlotTaken)
	}

	err = tx.QueryRow(`
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, appointment_time, reason, status)
		VALUES ($1, $2, $3::date, $4::time, $5, $6)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.Date.Format(utils.DateLayout), a.Time, a.Reason, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.SlotUnavailable(entities.ReasonSlotTaken)
		}
		return fmt.Errorf("error inserting appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return apperrors.SlotUnavailable(entities.ReasonSlotTaken)
		}
		return fmt.Errorf("error committing booking: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *BookingRepository) AppointmentByID(id int) (*db.Appointment, error) {
	var a db.Appointment
	var date time.Time
	err := r.DB.QueryRow(`
		SELECT id, patient_id, doctor_id, appointment_date,
		       to_char(appointment_time, 'HH24:MI'),
		       COALESCE(reason, ''), status, created_at, updated_at
		FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.DoctorID, &date, &a.Time, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	a.Date = date
	return &a, nil
}

func (r *BookingRepository) UpdateAppointmentStatus(id int, status string) error {
	_, err := r.DB.Exec(`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating appointment %d status: %w", id, err)
	}
	return nil
}

// AppointmentTimesForDoctorDate returns the blocking (pending/confirmed)
// start times for a doctor on a date, ascending.
func (r *BookingRepository) AppointmentTimesForDoctorDate(doctorID int, date time.Time) ([]string, error) {
	rows, err := r.DB.Query(`
		SELECT to_char(appointment_time, 'HH24:MI')
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2::date
		  AND status IN ('pending', 'confirmed')
		ORDER BY appointment_time`,
		doctorID, date.Format(utils.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error querying booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("error scanning booked time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *BookingRepository) AppointmentsForPatient(patientID int) ([]entities.AppointmentView, error) {
	rows, err := r.DB.Query(`
		SELECT a.id, a.doctor_id, d.name, d.specialty, a.appointment_date,
		       to_char(a.appointment_time, 'HH24:MI'),
		       COALESCE(a.reason, ''), a.status, a.created_at
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("error querying patient appointments: %w", err)
	}
	defer rows.Close()

	var appointments []entities.AppointmentView
	for rows.Next() {
		var v entities.AppointmentView
		if err := rows.Scan(&v.ID, &v.DoctorID, &v.DoctorName, &v.DoctorSpecialty,
			&v.Date, &v.Time, &v.Reason, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning patient appointment: %w", err)
		}
		appointments = append(appointments, v)
	}
	return appointments, rows.Err()
}
