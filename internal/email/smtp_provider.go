package email

import (
	"fmt"

	"workhub_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	cfg config.SMTPConfig
}

func NewSMTPProvider(cfg config.SMTPConfig) (*SMTPProvider, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", cfg.Port)
	}
	return &SMTPProvider{cfg: cfg}, nil
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(p.cfg.Host, p.cfg.Port, p.cfg.Username, p.cfg.Password)
	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendTemplate(to, templateName string, data TemplateData) error {
	subject, body, err := Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(to, subject, body)
}

// NoopProvider используется в окружениях без SMTP (тесты, локальная разработка)
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, body string) error { return nil }

func (NoopProvider) SendTemplate(to, templateName string, data TemplateData) error { return nil }
