package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"

	mailer "github.com/jordan-wright/email"
)

// Transport delivers a composed message.
type Transport interface {
	Send(ctx context.Context, msg *mailer.Email) error
}

// SMTPTransport opens one SMTP session per message. The context deadline
// bounds the dial and every read and write of the session.
type SMTPTransport struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (usually port 465); otherwise STARTTLS when offered
	Username string
	Password string

	// TLSConfig overrides the default client TLS settings, mainly for tests.
	TLSConfig *tls.Config
}

func (t *SMTPTransport) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func (t *SMTPTransport) Send(ctx context.Context, msg *mailer.Email) error {
	from, err := envelopeAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	var rcpts []string
	for _, list := range [][]string{msg.To, msg.Cc, msg.Bcc} {
		for _, raw := range list {
			addr, err := envelopeAddress(raw)
			if err != nil {
				return fmt.Errorf("invalid recipient: %w", err)
			}
			rcpts = append(rcpts, addr)
		}
	}
	if len(rcpts) == 0 {
		return fmt.Errorf("no recipients")
	}

	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.Addr(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, t.Host)
	if err != nil {
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()

	if !t.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig()); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if t.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return ErrAuthNotSupported
		}
		if err := c.Auth(smtp.PlainAuth("", t.Username, t.Password, t.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO: %w", err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end of data: %w", err)
	}

	return c.Quit()
}

func (t *SMTPTransport) dial(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{}
	if t.Secure {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig()}
		return tlsDialer.DialContext(ctx, "tcp", t.Addr())
	}
	return dialer.DialContext(ctx, "tcp", t.Addr())
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	if t.TLSConfig != nil {
		return t.TLSConfig
	}
	return &tls.Config{
		ServerName: t.Host,
		MinVersion: tls.VersionTLS12,
	}
}

func envelopeAddress(raw string) (string, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}
