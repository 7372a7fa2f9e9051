package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// EmailSender delivers verification codes to freshly registered users.
type EmailSender interface {
	SendVerificationEmail(to, username, otp string) error
}

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailService creates a new EmailService.
func NewEmailService(host, port, username, password, from string) *EmailService {
	return &EmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendVerificationEmail delivers the one-time code to the given address.
func (s *EmailService) SendVerificationEmail(to, username, otp string) error {
	subject := "WhisperBox | Verification Code"
	body := fmt.Sprintf("Hello %s,\n\nYour verification code is %s\n\nThanks,\nWhisperBox Team", username, otp)

	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	// No SMTP host configured means local development: log the mail instead
	// of failing every sign-up.
	if s.host == "" {
		log.Printf("[Email] SMTP not configured, would send to %s: %s", to, subject)
		log.Printf("[Email] %s", body)
		return nil
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message.String())); err != nil {
		log.Printf("[Email] Failed to send verification email: %v", err)
		return err
	}

	return nil
}
