package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
)

type OrderEmailData struct {
	Name        string
	OrderID     uint
	TotalAmount float64
	ItemCount   int
	OrdersURL   string
}

// SendOrderConfirmationEmail emails the customer after checkout. Returns an
// error when SMTP is not configured; callers treat delivery as best-effort.
func SendOrderConfirmationEmail(emailTo string, data OrderEmailData, templatePath string) error {
	if os.Getenv("SMTP_ADDRESS") == "" {
		return fmt.Errorf("smtp is not configured")
	}

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: Agrisetu Order #%d Confirmed\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		data.OrderID,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
