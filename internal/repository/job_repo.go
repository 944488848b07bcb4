package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"clinicare/internal/utils"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetStalePendingAppointmentIDs finds pending appointments whose date has
// already passed and which were never confirmed.
func (r *JobRepository) GetStalePendingAppointmentIDs() ([]int, error) {
	query := `SELECT id FROM appointments WHERE status = 'pending' AND appointment_date < CURRENT_DATE`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending appointments: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateAppointmentStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d appointments to '%s'", rowsAffected, newStatus)
	}
	return nil
}

type ReminderRow struct {
	AppointmentID int
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	DoctorName    string
	Date          time.Time
	Time          string
}

// RemindersForDate returns the confirmed appointments on the given date with
// enough patient/doctor context to send a reminder.
func (r *JobRepository) RemindersForDate(date time.Time) ([]ReminderRow, error) {
	rows, err := r.DB.Query(`
		SELECT a.id, u.username, u.email, COALESCE(u.phone, ''), d.name,
		       a.appointment_date, to_char(a.appointment_time, 'HH24:MI')
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.appointment_date = $1::date AND a.status = 'confirmed'
		ORDER BY a.appointment_time`,
		date.Format(utils.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error querying reminders: %w", err)
	}
	defer rows.Close()

	var reminders []ReminderRow
	for rows.Next() {
		var rem ReminderRow
		if err := rows.Scan(&rem.AppointmentID, &rem.PatientName, &rem.PatientEmail, &rem.PatientPhone,
			&rem.DoctorName, &rem.Date, &rem.Time); err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}
