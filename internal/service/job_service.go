package service

import (
	"fmt"
	"log"

	"clinicare/internal/repository"
	"clinicare/internal/utils"
)

type JobService struct {
	Repo   *repository.JobRepository
	sender *SenderService
}

func NewJobService(repo *repository.JobRepository, sender *SenderService) *JobService {
	return &JobService{Repo: repo, sender: sender}
}

// CancelStalePendingAppointments finds pending appointments whose date has
// passed without staff confirmation and cancels them.
func (s *JobService) CancelStalePendingAppointments() error {
	log.Println("Cron Job: Checking for stale pending appointments...")

	appointmentIDs, err := s.Repo.GetStalePendingAppointmentIDs()
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending appointments: %w", err)
	}

	if len(appointmentIDs) == 0 {
		log.Println("Cron Job: No stale pending appointments found.")
		return nil
	}

	log.Printf("Cron Job: Found %d appointments to cancel. IDs: %v", len(appointmentIDs), appointmentIDs)

	err = s.Repo.UpdateAppointmentStatuses(appointmentIDs, StatusCanceled)
	if err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully canceled %d stale appointments.", len(appointmentIDs))
	return nil
}

// SendUpcomingAppointmentReminders emails/texts patients with a confirmed
// appointment tomorrow.
func (s *JobService) SendUpcomingAppointmentReminders() error {
	tomorrow := utils.Today().AddDate(0, 0, 1)

	reminders, err := s.Repo.RemindersForDate(tomorrow)
	if err != nil {
		return fmt.Errorf("cron job: failed to get reminders: %w", err)
	}

	if len(reminders) == 0 {
		log.Println("Cron Job: No confirmed appointments tomorrow, no reminders to send.")
		return nil
	}

	log.Printf("Cron Job: Sending %d appointment reminders for %s", len(reminders), tomorrow.Format(utils.DateLayout))
	for _, rem := range reminders {
		s.sender.SendReminder(ReminderInput{
			AppointmentID: rem.AppointmentID,
			PatientName:   rem.PatientName,
			PatientEmail:  rem.PatientEmail,
			PatientPhone:  rem.PatientPhone,
			DoctorName:    rem.DoctorName,
			Date:          rem.Date,
			Time:          rem.Time,
		})
	}
	return nil
}
