package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templateFS, "templates/new_lead.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, baseURL string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendNewLead(to string, data NewLeadEmailData) error {
	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s", data.LeadName))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

// NotifyNewLead atende o worker da fila de notificações.
func (s *EmailSender) NotifyNewLead(_ context.Context, to *entity.User, payload queue.LeadCapturedPayload) error {
	if to.Email == "" {
		return nil
	}
	data := NewLeadEmailData{
		DoctorName: to.Name,
		LeadName:   payload.Name,
		LeadPhone:  payload.Phone,
		LeadEmail:  payload.Email,
		Source:     payload.Source,
		Indication: payload.Indication,
	}
	if s.BaseURL != "" {
		data.LeadsURL = s.BaseURL + "/leads"
	}
	return s.SendNewLead(to.Email, data)
}
