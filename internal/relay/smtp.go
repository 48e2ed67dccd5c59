package relay

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"portfolio-contact/internal/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP mails submissions straight to the site owner.
type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send sendMailFunc
}

func NewSMTP(cfg *config.Config) *SMTP {
	return &SMTP{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		To:   cfg.ToEmail,
		send: smtp.SendMail,
	}
}

func (s *SMTP) Deliver(ctx context.Context, p Payload) (Result, error) {
	if s.User == "" || s.Pass == "" {
		return Result{}, ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	to := s.To
	if to == "" {
		to = s.User
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := s.send(s.Host+":"+s.Port, auth, s.User, []string{to}, composeMessage(s.User, to, p)); err != nil {
		return Result{}, fmt.Errorf("send mail: %w", err)
	}
	return Result{Success: true}, nil
}

func composeMessage(from, to string, p Payload) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerValue(p.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, p.Name, p.Email, p.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerValue(p.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue keeps visitor input on a single header line.
func headerValue(s string) string {
	return headerBreaks.Replace(s)
}
