package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"tallerpro/internal/config"

	"github.com/jordan-wright/email"
)

var ErrSMTPNoConfigurado = errors.New("SMTP no configurado")

// Adjunto is an in-memory attachment.
type Adjunto struct {
	Nombre      string
	ContentType string
	Datos       []byte
}

// Correo is one outgoing message.
type Correo struct {
	Para     string
	Asunto   string
	Texto    string
	Adjuntos []Adjunto
}

// Mailer sends through the configured SMTP relay behind a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	breaker  *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Enviar delivers c. It does not retry; callers decide what a failure means.
func (m *Mailer) Enviar(c Correo) error {
	if m.host == "" {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{c.Para}
	e.Subject = c.Asunto
	e.Text = []byte(c.Texto)

	for _, a := range c.Adjuntos {
		if _, err := e.Attach(bytes.NewReader(a.Datos), a.Nombre, a.ContentType); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", a.Nombre, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}

// Estado exposes the breaker state for the health endpoint.
func (m *Mailer) Estado() CBState { return m.breaker.State() }
