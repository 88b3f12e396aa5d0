package mail

import (
	"fmt"
	"strings"
	"text/template"

	"hktplatform.app/api/internal/domain"
)

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[domain.EmailKind]emailTemplate{
	domain.EmailWelcome: mustTemplate(
		"Welcome to HKT, {{.name}}",
		`Hi {{.name}},

Your HKT account is ready. Browse properties, book a stay or invest in tokenized real estate at
{{.frontend_url}}.

Questions? Reply to this email or write to {{.support_email}}.

The HKT team
`),
	domain.EmailBookingConfirmed: mustTemplate(
		"Booking confirmed: {{.property}}",
		`Hi {{.name}},

Your stay at {{.property}} is confirmed.

  Booking:   {{.booking_id}}
  Check-in:  {{.check_in}}
  Check-out: {{.check_out}}
  Guests:    {{.guests}}
  Total:     {{.total}} HKT
  Reference: {{.payment_reference}}

Manage your booking at {{.frontend_url}}/bookings/{{.booking_id}}.

The HKT team
`),
	domain.EmailBookingCancelled: mustTemplate(
		"Booking cancelled: {{.property}}",
		`Hi {{.name}},

Your booking {{.booking_id}} at {{.property}} (check-in {{.check_in}}) has been cancelled.

Refund: {{.refund}} HKT

If you did not request this, contact {{.support_email}}.

The HKT team
`),
	domain.EmailContactMessage: mustTemplate(
		"Contact form: {{.name}}",
		`New message from the contact form.

From:  {{.name}} <{{.email}}>

{{.message}}
`),
	domain.EmailPasswordChanged: mustTemplate(
		"Your HKT password was changed",
		`Hi {{.name}},

The password for your HKT account was just changed. If this wasn't you, contact
{{.support_email}} right away.

The HKT team
`),
}

func mustTemplate(subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New("subject").Option("missingkey=error").Parse(subject)),
		body:    template.Must(template.New("body").Option("missingkey=error").Parse(body)),
	}
}

// Render produces the subject and plain-text body for kind. A missing template
// variable is a permanent failure.
func Render(kind domain.EmailKind, data map[string]string) (string, string, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("no template for %q: %w", kind, ErrPermanent)
	}

	var subject, body strings.Builder
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("rendering %s subject: %v: %w", kind, err, ErrPermanent)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("rendering %s body: %v: %w", kind, err, ErrPermanent)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
