package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "WebPulse AI <noreply@webpulse.ai>"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendPreviewReady(to, name, previewURL string) error {
	subject := fmt.Sprintf("Your New Website Preview - %s", name)
	return s.send(to, subject, "preview_ready.html", previewReadyData{
		Name:       name,
		PreviewURL: previewURL,
	})
}

func (s *EmailSender) SendPaymentConfirmation(to, name string) error {
	subject := fmt.Sprintf("Payment Confirmed - %s Website Development", name)
	return s.send(to, subject, "payment_confirmation.html", basicData{Name: name})
}

func (s *EmailSender) SendDevelopmentStarted(to, name, estimatedDate string) error {
	subject := fmt.Sprintf("Development Started - %s", name)
	return s.send(to, subject, "development_started.html", developmentStartedData{
		Name:          name,
		EstimatedDate: estimatedDate,
	})
}

func (s *EmailSender) SendWebsiteCompleted(to, name, siteURL string) error {
	subject := fmt.Sprintf("Your Website is Ready! - %s", name)
	return s.send(to, subject, "website_completed.html", websiteReadyData{
		Name:    name,
		SiteURL: siteURL,
	})
}

func (s *EmailSender) SendWebsiteDelivered(to, name, siteURL string) error {
	subject := fmt.Sprintf("Website Delivered - %s", name)
	return s.send(to, subject, "website_delivered.html", websiteReadyData{
		Name:    name,
		SiteURL: siteURL,
	})
}

func (s *EmailSender) SendReminder(to, name string) error {
	subject := fmt.Sprintf("Your Website Preview is Waiting - %s", name)
	return s.send(to, subject, "reminder.html", basicData{Name: name})
}

func (s *EmailSender) send(to, subject, templateName string, data any) error {
	tmplPath := filepath.Join("templates", templateName)
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}

	return nil
}
