package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/services/markdown"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	HTML    string
}

var statusColors = map[vo.Status]string{
	vo.StatusOpen:       "#e74c3c",
	vo.StatusInProgress: "#f39c12",
	vo.StatusClosed:     "#27ae60",
}

const fallbackStatusColor = "#7f8c8d"

// MessageBuilder renders notification subjects and bodies.
type MessageBuilder struct {
	markdown     markdown.Renderer
	dashboardURL string
	loc          *time.Location
	created      *template.Template
	changed      *template.Template
}

func NewMessageBuilder(renderer markdown.Renderer, dashboardURL string, loc *time.Location) *MessageBuilder {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"statusColor": statusColor,
		"orNA": func(s string) string {
			if s == "" {
				return "N/A"
			}
			return s
		},
	}
	return &MessageBuilder{
		markdown:     renderer,
		dashboardURL: dashboardURL,
		loc:          loc,
		created:      template.Must(template.New("created").Funcs(funcs).Parse(layoutHead + createdBody + layoutFoot)),
		changed:      template.Must(template.New("changed").Funcs(funcs).Parse(layoutHead + changedBody + layoutFoot)),
	}
}

func (b *MessageBuilder) RequestCreated(e servicerequest.RequestCreatedEvent) (*Message, error) {
	description, err := b.renderDescription(e.Request.Description)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"Title":        "New Service Request Created",
		"Request":      e.Request,
		"Status":       e.Request.Status,
		"CreatedBy":    e.ActorUsername,
		"CreatedAt":    b.format(e.GetOccurredAt()),
		"Description":  description,
		"DashboardURL": b.dashboardURL,
	}

	html, err := execute(b.created, data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("New Service Request: %s", e.Request.ServiceNumber),
		HTML:    html,
	}, nil
}

func (b *MessageBuilder) StatusChanged(e servicerequest.StatusChangedEvent) (*Message, error) {
	data := map[string]any{
		"Title":        "Service Request Status Updated",
		"Request":      e.Request,
		"OldStatus":    e.OldStatus,
		"NewStatus":    e.NewStatus,
		"UpdatedBy":    e.ActorUsername,
		"UpdatedAt":    b.format(e.GetOccurredAt()),
		"DashboardURL": b.dashboardURL,
	}

	html, err := execute(b.changed, data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("SR %s Status: %s → %s", e.Request.ServiceNumber, e.OldStatus, e.NewStatus),
		HTML:    html,
	}, nil
}

func (b *MessageBuilder) renderDescription(description string) (template.HTML, error) {
	if description == "" || b.markdown == nil {
		return "", nil
	}
	html, err := b.markdown.ToHTMLSanitized(description)
	if err != nil {
		return "", err
	}
	// sanitized by the markdown renderer
	return template.HTML(html), nil
}

func (b *MessageBuilder) format(t time.Time) string {
	return t.In(b.loc).Format(biztime.DateTimeLayout)
}

func statusColor(s vo.Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fallbackStatusColor
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s notification: %w", t.Name(), err)
	}
	return buf.String(), nil
}

const layoutHead = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #0054a6, #8dc63f); color: white; padding: 20px; text-align: center;">
    <h1>{{.Title}}</h1>
  </div>
  <div style="padding: 20px; background: #f8f9fa;">
`

const createdBody = `    <h2 style="color: #0054a6;">Request Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">SR Number:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Request.ServiceNumber}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Node:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{orNA .Request.Node}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Issue:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{orNA .Request.Issue}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Status:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;"><span style="background: {{statusColor .Status}}; color: white; padding: 4px 8px; border-radius: 4px;">{{.Status}}</span></td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Created By:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.CreatedBy}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Created Date:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.CreatedAt}}</td></tr>
    </table>
{{- if .Description}}
    <h3 style="color: #0054a6; margin-top: 20px;">Description</h3>
    <div style="background: white; padding: 15px; border-radius: 4px; border-left: 4px solid #8dc63f;">{{.Description}}</div>
{{- end}}
`

const changedBody = `    <h2 style="color: #0054a6;">SR Number: {{.Request.ServiceNumber}}</h2>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3>Status Change</h3>
      <p style="margin: 10px 0;">
        <span style="background: {{statusColor .OldStatus}}; color: white; padding: 4px 8px; border-radius: 4px;">{{.OldStatus}}</span>
        <span style="margin: 0 10px;">&rarr;</span>
        <span style="background: {{statusColor .NewStatus}}; color: white; padding: 4px 8px; border-radius: 4px;">{{.NewStatus}}</span>
      </p>
      <p><strong>Updated by:</strong> {{.UpdatedBy}}</p>
      <p><strong>Updated on:</strong> {{.UpdatedAt}}</p>
    </div>
    <table style="width: 100%; border-collapse: collapse; background: white;">
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Node:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{orNA .Request.Node}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold; border-bottom: 1px solid #ddd;">Issue:</td><td style="padding: 8px; border-bottom: 1px solid #ddd;">{{orNA .Request.Issue}}</td></tr>
    </table>
`

const layoutFoot = `{{- if .DashboardURL}}
    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.DashboardURL}}" style="background: #0054a6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">View Dashboard</a>
    </div>
{{- end}}
  </div>
  <div style="background: #2c3e50; color: white; padding: 15px; text-align: center; font-size: 12px;">
    <p>Service Request Dashboard</p>
    <p>This is an automated notification. Please do not reply to this email.</p>
  </div>
</div>
`
