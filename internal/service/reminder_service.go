package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabinet-medical-api/internal/domain/repository"
	"cabinet-medical-api/internal/infrastructure/messaging"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderService sends WhatsApp reminders to patients with a Scheduled
// appointment tomorrow. Sending is best-effort per patient: one failed
// number never blocks the rest of the batch.
type ReminderService struct {
	db             *gorm.DB
	log            *logrus.Logger
	rendezVousRepo repository.RendezVousRepository
	sender         messaging.WhatsAppSender
	now            func() time.Time
}

func NewReminderService(
	db *gorm.DB,
	log *logrus.Logger,
	rendezVousRepo repository.RendezVousRepository,
	sender messaging.WhatsAppSender,
) *ReminderService {
	return &ReminderService{
		db:             db,
		log:            log,
		rendezVousRepo: rendezVousRepo,
		sender:         sender,
		now:            time.Now,
	}
}

// SendTomorrowReminders returns how many reminders were delivered.
func (s *ReminderService) SendTomorrowReminders(ctx context.Context) (int, error) {
	now := s.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

	rendezVous, err := s.rendezVousRepo.FindScheduledForDay(s.db.WithContext(ctx), tomorrow)
	if err != nil {
		s.log.Warnf("Failed to load tomorrow's rendez-vous: %+v", err)
		return 0, err
	}

	sent := 0
	for _, rv := range rendezVous {
		if rv.Patient.PhoneNumber == "" {
			continue
		}

		message := reminderMessage(rv.Patient.FullName, rv.Medecin.FullName, rv.Date, rv.Medecin.Price.StringFixed(0))
		if err := s.sender.Send(ctx, rv.Patient.PhoneNumber, message); err != nil {
			if errors.Is(err, messaging.ErrNotConfigured) {
				return sent, err
			}
			s.log.Warnf("Failed to send reminder for rendez-vous %s: %+v", rv.ID, err)
			continue
		}
		sent++
	}

	s.log.Infof("Sent %d/%d appointment reminders for %s", sent, len(rendezVous), tomorrow.Format("2006-01-02"))
	return sent, nil
}

func reminderMessage(patientName, medecinName string, date time.Time, price string) string {
	return fmt.Sprintf(`*Rappel de Rendez-vous*

Bonjour %s,

Ceci est un rappel pour votre rendez-vous chez Dr. %s.

Date: %s
Tarif: %sDH

Merci de confirmer votre présence ou de nous contacter pour tout changement.

À demain!`, patientName, medecinName, date.Format("02/01/2006"), price)
}
