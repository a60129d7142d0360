package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Именованные шаблоны уведомлений
const (
	TemplateJobAssigned  = "job_assigned"
	TemplateWorkFinished = "work_finished"
	TemplateReviewLeft   = "review_left"
	TemplateWelcome      = "welcome"
)

type tmpl struct {
	subject string
	body    *template.Template
}

var templates = map[string]tmpl{
	TemplateWelcome: {
		subject: "Welcome to WorkHub",
		body: template.Must(template.New(TemplateWelcome).Parse(
			`<p>Hi {{.Name}},</p><p>Your account is ready. Post a job or start applying right away.</p>`)),
	},
	TemplateJobAssigned: {
		subject: "You have been assigned to a job",
		body: template.Must(template.New(TemplateJobAssigned).Parse(
			`<p>Hi {{.Name}},</p><p>You were assigned to <b>{{.JobTitle}}</b> at {{.Address}}. Check your messages for details.</p>`)),
	},
	TemplateWorkFinished: {
		subject: "Work finished, review pending",
		body: template.Must(template.New(TemplateWorkFinished).Parse(
			`<p>Hi {{.Name}},</p><p>Work on <b>{{.JobTitle}}</b> is finished. Payment due: {{.PaymentDue}}. Please review the result.</p>`)),
	},
	TemplateReviewLeft: {
		subject: "You received a new review",
		body: template.Must(template.New(TemplateReviewLeft).Parse(
			`<p>Hi {{.Name}},</p><p>{{.ReviewerName}} left you a review: {{.Stars}} stars.</p>`)),
	},
}

// Render возвращает тему и тело письма для именованного шаблона
func Render(name string, data TemplateData) (subject, body string, err error) {
	t, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", name)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", name, err)
	}
	return t.subject, buf.String(), nil
}
