package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

var adminEmailTemplate = template.Must(template.New("admin_email").Parse(`<h2>Route Cancellation Alert</h2>
<p>A volunteer has cancelled their route assignment:</p>
<div style="background: #f3f4f6; padding: 15px; border-radius: 8px; margin: 15px 0;">
  <strong>Details:</strong><br>
  &bull; Day: {{.Day}}<br>
  &bull; Route: Route {{.RouteNumber}}<br>
  &bull; Notice: {{.NoticeHours}} hours before slot
</div>
<h3>Available Volunteers with {{.Day}} availability:</h3>
{{- if .Candidates}}
<ul>
{{- range .Candidates}}
  <li>{{.Name}} - {{.PhoneNumber}}</li>
{{- end}}
</ul>
{{- else}}
<p>None found</p>
{{- end}}
{{- if .DashboardURL}}
<p style="margin-top: 20px;">
  <a href="{{.DashboardURL}}" style="background: #3BB4C1; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Open Admin Dashboard</a>
</p>
{{- end}}
`))

type adminEmailData struct {
	Day          string
	RouteNumber  int
	NoticeHours  int
	Candidates   []Candidate
	DashboardURL string
}

func renderAdminEmail(data adminEmailData) (string, error) {
	var buf bytes.Buffer
	if err := adminEmailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render admin email: %w", err)
	}
	return buf.String(), nil
}

func adminEmailSubject(day string, routeNumber int) string {
	return fmt.Sprintf("Route Cancellation: %s Route %d", day, routeNumber)
}

func volunteerSMSBody(day string, routeNumber int) string {
	return fmt.Sprintf("Route alert: a %s Route %d slot has just opened up! If you're available, please sign up ASAP via the volunteer dashboard.", day, routeNumber)
}
