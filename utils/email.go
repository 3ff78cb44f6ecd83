package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

// EmailSender delivers transactional mail over SMTP. With no host configured
// it prints the mail to the log instead, which keeps local development working
// without a mail account.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewEmailSender(host, port, username, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

const verificationTemplate = `
<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; background-color: #f4f4f9; color: #333333; }
    .email-container { max-width: 600px; margin: 20px auto; background: #ffffff; border: 1px solid #dddddd; border-radius: 8px; padding: 20px; }
    h1 { color: #2d89ef; font-size: 24px; }
    .otp-code { font-size: 20px; font-weight: bold; color: #ff5c5c; }
    .footer { margin-top: 20px; font-size: 14px; color: #888888; }
  </style>
</head>
<body>
  <div class="email-container">
    <h1>Email Verification</h1>
    <p>Thank you for registering! To complete your registration, please verify your email address by entering the code below:</p>
    <div class="otp-code">{{.Otp}}</div>
    <p>This code is valid for <strong>10 minutes</strong>. If you did not request this, please ignore this email.</p>
    <p>Best regards,</p>
    <p>The Team</p>
    <div class="footer">
      <p>If you have any questions, contact us at <a href="mailto:support@example.com">support@example.com</a>.</p>
    </div>
  </div>
</body>
</html>
`

// SendVerificationEmail mails the OTP to the address.
func (s *EmailSender) SendVerificationEmail(to, otp string) error {
	t, err := template.New("verification").Parse(verificationTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Otp": otp}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	headers := map[string]string{
		"From":         s.From,
		"To":           to,
		"Subject":      "Verify your email address",
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body.String()

	if s.Host == "" {
		log.Printf("MOCK EMAIL TO %s: your verification code is %s", to, otp)
		return nil
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(message))
}
