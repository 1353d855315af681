package email

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for inbox links (e.g., "https://support.example.com")
}

// SMTPEmailService sends the e-mail copies of inbox notifications.
type SMTPEmailService struct {
	config SMTPConfig
	send   func(m ...*gomail.Message) error
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		send:   dialer.DialAndSend,
	}
}

func (s *SMTPEmailService) SendNotificationEmail(to, subject, body string) error {
	inboxURL := strings.TrimRight(s.config.BaseURL, "/") + "/notifications"

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>%s</p>
			<p><a href="%s">Open your notifications</a></p>
		</body>
		</html>
	`, html.EscapeString(body), inboxURL)

	plainBody := fmt.Sprintf("%s\n\nOpen your notifications: %s\n", body, inboxURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendTestEmail checks the SMTP settings end to end.
func (s *SMTPEmailService) SendTestEmail(to string) error {
	return s.sendEmail(to, "TicketSync test e-mail",
		"<html><body><p>SMTP is configured correctly.</p></body></html>",
		"SMTP is configured correctly.\n")
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
