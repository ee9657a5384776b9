package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/model"

	"gopkg.in/gomail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends PI notifications over SMTP. With no SMTP host configured it only logs.
type Mailer struct {
	from   string
	sender sender
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{from: cfg.From}
	if cfg.Host != "" {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m.sender != nil
}

func (m *Mailer) NotifyDataRequest(ctx context.Context, pi model.PI, period model.Period) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pi.Email == "" {
		log.Printf("[MAIL] PI %s has no e-mail address, request for %s not mailed", pi.Username, period.Key())
		return nil
	}
	if !m.Enabled() {
		log.Printf("[MAIL] SMTP not configured, would notify %s <%s> about %s", pi.Username, pi.Email, period.Key())
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", pi.Email)
	msg.SetHeader("Subject", requestSubject(period))
	msg.SetBody("text/plain", requestBody(pi, period))

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send request mail to %s: %w", pi.Email, err)
	}
	log.Printf("[MAIL] data request for %s sent to %s", period.Key(), pi.Email)
	return nil
}

func requestSubject(period model.Period) string {
	start, _ := period.Range()
	return fmt.Sprintf("Attendance data requested for %s", start.Format("January 2006"))
}

func requestBody(pi model.PI, period model.Period) string {
	start, end := period.Range()
	return fmt.Sprintf(
		"Dear %s,\n\nHR has requested the attendance data of your project staff for %s to %s.\n"+
			"Please review your team's attendance and submit it from the PI dashboard.\n\n"+
			"Requested at %s.\n",
		pi.Username, start.Format(model.DateLayout), end.Format(model.DateLayout), time.Now().UTC().Format(time.RFC1123),
	)
}
