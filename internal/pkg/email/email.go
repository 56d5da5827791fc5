package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendExceptionRequest(to string, data ExceptionRequestData) error
	SendRequestResolved(to string, data RequestResolvedData) error
	SendCredentials(to string, data CredentialsData) error
	SendLeaveResolved(to string, data LeaveResolvedData) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type ExceptionRequestData struct {
	RequestID    string
	EmployeeID   string
	EmployeeName string
	RequestType  string
	Reason       string
	Latitude     float64
	Longitude    float64
}

// SendExceptionRequest asks the admin to review an exception request
func (s *emailServiceImpl) SendExceptionRequest(to string, data ExceptionRequestData) error {
	subject := fmt.Sprintf("Attendance request: %s from %s", data.RequestType, data.EmployeeName)
	return s.render(to, subject, "exception_request.html", data)
}

type RequestResolvedData struct {
	EmployeeName  string
	ResolverEmail string
	Status        string
	RequestType   string
	Date          string
}

func (d RequestResolvedData) Approved() bool {
	return strings.EqualFold(d.Status, "approved")
}

// SendRequestResolved tells the employee the outcome of their request
func (s *emailServiceImpl) SendRequestResolved(to string, data RequestResolvedData) error {
	subject := fmt.Sprintf("Your %s request for %s was %s", data.RequestType, data.Date, data.Status)
	return s.render(to, subject, "request_resolved.html", data)
}

type CredentialsData struct {
	EmployeeName      string
	EmployeeID        string
	LoginEmail        string
	TemporaryPassword string
}

// SendCredentials delivers the login details of a newly registered employee
func (s *emailServiceImpl) SendCredentials(to string, data CredentialsData) error {
	return s.render(to, "Your attendance account", "credentials.html", data)
}

type LeaveResolvedData struct {
	EmployeeName  string
	ResolverEmail string
	Status        string
	Category      string
	FromDate      string
	ToDate        string
}

// SendLeaveResolved tells the employee the outcome of a leave request
func (s *emailServiceImpl) SendLeaveResolved(to string, data LeaveResolvedData) error {
	subject := fmt.Sprintf("Leave request %s", data.Status)
	return s.render(to, subject, "leave_resolved.html", data)
}

func (s *emailServiceImpl) render(to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
