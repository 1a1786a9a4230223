package mailingservices

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/models"
	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps the mailgun client for transactional mail. With no API key
// configured every send becomes a logged no-op.
type Mailgun struct {
	client *mailgun.MailgunImpl
	from   string
}

func NewMailgun(conf *config.Config) *Mailgun {
	m := &Mailgun{from: conf.MgEmailFrom}
	if conf.MailgunApiKey == "" || conf.MgDomain == "" {
		log.Println("mailgun not configured, resolution emails disabled")
		return m
	}
	m.client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	return m
}

// SendResolutionEmail tells the reporter their complaint was resolved and
// how many points they earned.
func (m *Mailgun) SendResolutionEmail(user *models.User, complaint *models.Complaint) error {
	if m.client == nil {
		return nil
	}

	subject := "Your complaint has been resolved"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s report in %s has been resolved by the assigned response team. "+
			"%d points have been credited to your account.\n\nThank you for making your city better.\n",
		user.Name, complaint.Category, complaint.City, complaint.PointsAwarded,
	)

	message := m.client.NewMessage(m.from, subject, body, user.Email)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.client.Send(ctx, message)
	return err
}
