package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"time"

	mailer "github.com/jordan-wright/email"
	"golang.org/x/time/rate"

	"natsu-gallery-backend/config"
)

const (
	SubjectPrefix  = "NATSU_GALLERY お問い合わせ: "
	DefaultTimeout = 10 * time.Second
)

// EmailService relays contact submissions to the site owner.
type EmailService struct {
	transport Transport
	fromEmail string
	toEmail   string
	timeout   time.Duration
	throttle  *rate.Limiter
}

// ContactEmailData holds the data for contact form emails.
// Name and Details must already be HTML-escaped; they are embedded verbatim.
type ContactEmailData struct {
	Name        string
	Email       string
	InquiryType string
	Details     string
}

type Option func(*EmailService)

func WithTransport(t Transport) Option {
	return func(s *EmailService) { s.transport = t }
}

func WithTimeout(d time.Duration) Option {
	return func(s *EmailService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithThrottle caps outbound messages per minute for the whole process. Zero disables it.
func WithThrottle(perMinute int) Option {
	return func(s *EmailService) {
		if perMinute <= 0 {
			s.throttle = nil
			return
		}
		s.throttle = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

// NewEmailService creates a new email service with SMTP configuration from cfg.
func NewEmailService(cfg *config.Config, opts ...Option) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	s := &EmailService{
		transport: &SMTPTransport{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Secure:   cfg.SMTPSecure,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
		fromEmail: from,
		toEmail:   cfg.ContactEmailTo,
		timeout:   DefaultTimeout,
	}
	WithTimeout(cfg.EmailTimeout)(s)
	WithThrottle(cfg.EmailMaxPerMinute)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var contactEmailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>お問い合わせ</title>
</head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
    <p><strong>お名前 (企業名):</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>ご依頼内容:</strong> {{.InquiryType}}</p>
    <p><strong>ご依頼・ご相談詳細:</strong></p>
    <p style="white-space: pre-wrap;">{{.Details}}</p>
</body>
</html>`))

const contactTextTemplate = "お名前 (企業名): %s\nEmail: %s\nご依頼内容: %s\n\nご依頼・ご相談詳細:\n%s\n"

type contactView struct {
	Name        template.HTML
	Email       string
	InquiryType string
	Details     template.HTML
}

// Compose builds the outgoing message for data without sending it.
func (s *EmailService) Compose(data ContactEmailData) (*mailer.Email, error) {
	var body bytes.Buffer
	err := contactEmailTemplate.Execute(&body, contactView{
		Name:        template.HTML(data.Name),
		Email:       data.Email,
		InquiryType: data.InquiryType,
		Details:     template.HTML(data.Details),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	e := mailer.NewEmail()
	e.From = s.fromEmail
	e.To = []string{s.toEmail}
	e.ReplyTo = []string{data.Email}
	e.Subject = SubjectPrefix + data.InquiryType
	e.HTML = body.Bytes()
	e.Text = []byte(fmt.Sprintf(contactTextTemplate,
		html.UnescapeString(data.Name),
		data.Email,
		data.InquiryType,
		html.UnescapeString(data.Details),
	))
	return e, nil
}

// SendContactEmail sends one contact email. It never retries; every failure
// comes back as a *DispatchError.
func (s *EmailService) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return &DispatchError{Reason: ReasonNotConfigured, Err: errors.New("email service is not configured")}
	}

	// The message is sent even if the client goes away; only the timeout stops it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if s.throttle != nil {
		if err := s.throttle.Wait(ctx); err != nil {
			return &DispatchError{Reason: ReasonTimeout, Err: fmt.Errorf("outbound throttle: %w", err)}
		}
	}

	msg, err := s.Compose(data)
	if err != nil {
		return &DispatchError{Reason: ReasonCompose, Err: err}
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		return &DispatchError{Reason: reasonFor(ctx, err), Err: err}
	}
	return nil
}

// IsConfigured checks if the email service has a transport, sender and recipient.
func (s *EmailService) IsConfigured() bool {
	if s.transport == nil || s.fromEmail == "" || s.toEmail == "" {
		return false
	}
	if t, ok := s.transport.(*SMTPTransport); ok {
		return t.Host != "" && t.Port > 0
	}
	return true
}
