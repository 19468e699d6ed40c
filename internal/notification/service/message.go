package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"samplehub/internal/domain"
)

type Content struct {
	Title string
	Body  string
	HTML  string
}

var statusTitles = map[domain.Status]string{
	domain.StatusRequested:    "Sample requested",
	domain.StatusInvoiceSent:  "Invoice ready",
	domain.StatusSamplePaid:   "Payment received",
	domain.StatusInProduction: "Sample in production",
	domain.StatusShipped:      "Sample shipped",
	domain.StatusDelivered:    "Sample delivered",
	domain.StatusInReview:     "Sample under review",
	domain.StatusApproved:     "Sample approved",
	domain.StatusRejected:     "Sample rejected",
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hi {{.Name}},</p>
  <p>{{.Body}}</p>
  {{- if .Note}}
  <blockquote style="border-left: 3px solid #ccc; padding-left: 8px;">{{.Note}}</blockquote>
  {{- end}}
  <p style="color: #888; font-size: 12px;">Sample request {{.SampleID}}</p>
</body>
</html>
`))

// Compose renders the notification texts for event as seen by recipient.
func Compose(event domain.NotificationEvent, sample domain.SampleRequest, recipient domain.Recipient) (Content, error) {
	var c Content

	switch event.Kind {
	case domain.EventCreated:
		c.Title = "New sample request"
		c.Body = fmt.Sprintf("A sample request for %q (quantity %d) was assigned to you.", sample.ProductDescription, sample.Quantity)
	default:
		c.Title = statusTitles[sample.Status]
		if c.Title == "" {
			c.Title = "Sample update"
		}
		c.Body = fmt.Sprintf("Your sample request for %q is now %s.", sample.ProductDescription, humanize(sample.Status))
	}

	var note string
	if event.Note != nil {
		note = strings.TrimSpace(*event.Note)
	}

	name := recipient.Name
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Name     string
		Body     string
		Note     string
		SampleID string
	}{name, c.Body, note, sample.ID})
	if err != nil {
		return Content{}, fmt.Errorf("rendering email template: %w", err)
	}
	c.HTML = buf.String()

	return c, nil
}

func humanize(s domain.Status) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
