package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"clinicare/internal/db"
	"clinicare/internal/entities"
)

// SenderService implements Notifier: it builds the patient-facing email/SMS
// content for booking events and sends asynchronously so a slow provider
// never delays the booking response.
type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) AppointmentBooked(patient *db.User, doctor *db.Doctor, a *db.Appointment) {
	s.sendAppointmentEmail(patient, doctor, a, "booked")
	if patient.Phone != "" {
		s.sendAppointmentSMS(patient, doctor, a, "booked")
	}
}

func (s *SenderService) AppointmentCanceled(patient *db.User, doctor *db.Doctor, a *db.Appointment) {
	s.sendAppointmentEmail(patient, doctor, a, "canceled")
	if patient.Phone != "" {
		s.sendAppointmentSMS(patient, doctor, a, "canceled")
	}
}

func (s *SenderService) sendAppointmentEmail(patient *db.User, doctor *db.Doctor, a *db.Appointment, status string) {
	emailData := entities.AppointmentEmailData{
		PatientName:   patient.Username,
		DoctorName:    doctor.Name,
		DateFormatted: a.Date.Format("02 Jan 2006"),
		TimeFormatted: a.Time,
		Status:        status,
		CurrentYear:   time.Now().UTC().Year(),
	}

	emailSubject := fmt.Sprintf("Your CliniCare appointment is %s - %s at %s",
		status, emailData.DateFormatted, emailData.TimeFormatted)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with Dr. %s has been %s.\n\n"+
			"Appointment details:\n"+
			"Doctor: %s\n"+
			"Date: %s\n"+
			"Time: %s\n\n"+
			"Thank you for choosing CliniCare.\n\n"+
			"CliniCare. All rights reserved.",
		emailData.PatientName, emailData.DoctorName, status,
		emailData.DoctorName, emailData.DateFormatted, emailData.TimeFormatted,
	)

	htmlBody := plainTextBody
	tmplPath := filepath.Join("internal", "templates", "appointment_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("WARNING: could not parse email template (%s): %v", tmplPath, err)
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			log.Printf("WARNING: could not execute email template for appointment %d: %v", a.ID, err)
		} else {
			htmlBody = htmlBodyBuffer.String()
		}
	}

	go func(toEmail, toName, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlBodyContent); err != nil {
			log.Printf("WARNING (async): email for appointment %d failed: %v", a.ID, err)
		}
	}(patient.Email, patient.Username, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) sendAppointmentSMS(patient *db.User, doctor *db.Doctor, a *db.Appointment, status string) {
	smsMessage := fmt.Sprintf("CliniCare: your appointment with Dr. %s on %s at %s has been %s.\nMore details in your email.",
		doctor.Name, a.Date.Format("02/01"), a.Time, status)

	go func(phone, body string) {
		if err := SendSMS(phone, body); err != nil {
			log.Printf("WARNING (async): SMS for appointment %d to %s failed: %v", a.ID, phone, err)
		}
	}(patient.Phone, smsMessage)
}

// SendReminder is used by the maintenance job for next-day confirmed
// appointments.
func (s *SenderService) SendReminder(rem ReminderInput) {
	subject := fmt.Sprintf("Reminder: your CliniCare appointment tomorrow at %s", rem.Time)
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder of your appointment with Dr. %s on %s at %s.\n\n"+
			"CliniCare.",
		rem.PatientName, rem.DoctorName, rem.Date.Format("02 Jan 2006"), rem.Time,
	)

	go func() {
		if err := SendEmailWithSendGrid(rem.PatientEmail, rem.PatientName, subject, body, body); err != nil {
			log.Printf("WARNING (async): reminder email for appointment %d failed: %v", rem.AppointmentID, err)
		}
	}()

	if rem.PatientPhone != "" {
		sms := fmt.Sprintf("CliniCare: reminder of your appointment with Dr. %s tomorrow at %s.", rem.DoctorName, rem.Time)
		go func() {
			if err := SendSMS(rem.PatientPhone, sms); err != nil {
				log.Printf("WARNING (async): reminder SMS for appointment %d failed: %v", rem.AppointmentID, err)
			}
		}()
	}
}

type ReminderInput struct {
	AppointmentID int
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	DoctorName    string
	Date          time.Time
	Time          string
}
