// Package mail sends transactional email over SMTP. Sending is best-effort:
// callers fire it from a goroutine and checkout never blocks on the relay.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type smtpConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func loadConfig() smtpConfig {
	return smtpConfig{
		Host:     envOr("MAIL_HOST", "localhost"),
		Port:     envOr("MAIL_PORT", "587"),
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     envOr("MAIL_FROM", "hello@soggypotatoes.shop"),
		FromName: envOr("MAIL_FROM_NAME", "Soggy Potatoes"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Send delivers a plain-text email to a single recipient.
func Send(to, subject, body string) error {
	cfg := loadConfig()
	if cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.From))
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := cfg.Host + ":" + cfg.Port
	smtpAuth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return smtp.SendMail(addr, smtpAuth, cfg.From, []string{to}, []byte(b.String()))
}

// SendWelcome greets a new account. Failures are logged, not surfaced.
func SendWelcome(to, username string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Soggy Potatoes! Your account is ready.\n\nHappy shopping!\n", username)
	if err := Send(to, "Welcome to Soggy Potatoes!", body); err != nil {
		log.Printf("mail: welcome email to %s failed: %v", to, err)
	}
}

// SendOrderConfirmation mails a checkout receipt. Failures are logged, not surfaced.
func SendOrderConfirmation(to, orderNumber string, total float64) {
	body := fmt.Sprintf(
		"Thanks for your order!\n\nOrder number: %s\nTotal: $%.2f\n\nWe'll let you know when it ships.\n",
		orderNumber, total)
	if err := Send(to, "Order "+orderNumber+" confirmed", body); err != nil {
		log.Printf("mail: order confirmation for %s failed: %v", orderNumber, err)
	}
}
