package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"schoolhub_backend/internal/config"
)

type SMTPProvider struct {
	cfg      config.EmailConfig
	dialer   *gomail.Dialer
	renderer *TemplateManager
}

func NewSMTPProvider(cfg config.EmailConfig, renderer *TemplateManager) *SMTPProvider {
	return &SMTPProvider{
		cfg:      cfg,
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		renderer: renderer,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.cfg.From)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	html, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}
	return p.Send(&Email{To: to, Subject: subject, HTMLBody: html})
}

func (p *SMTPProvider) Validate() error {
	if p.cfg.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.cfg.Port <= 0 || p.cfg.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.cfg.Port)
	}
	return nil
}
