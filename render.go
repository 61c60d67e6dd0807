package hoteldash

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
)

// panelTemplates holds one template per view of a panel. Field lookups go
// through index on a map[string]string, so a missing key renders blank.
const panelTemplates = `
{{define "loading"}}<div class="loading">Loading...</div>{{end}}

{{define "error"}}<div class="error">Error found when fetching from API</div>{{end}}

{{define "stats"}}<div>
<h1>Latest Stats</h1>
<table class="StatsTable">
<tbody>
<tr><th>Hotel Room</th><th>Hotel Activity</th></tr>
<tr><td># Hotel Room Reservations: {{index .Fields "num_hotel_room_reservations"}}</td><td># Hotel Activity Reservations: {{index .Fields "num_hotel_activity_reservations"}}</td></tr>
<tr><td colspan="2">Max Hotel Room People: {{index .Fields "max_hotel_room_ppl"}}</td></tr>
<tr><td colspan="2">Max Hotel Activity People: {{index .Fields "max_hotel_activity_ppl"}}</td></tr>
</tbody>
</table>
<h3>Last Updated: {{index .Fields "last_updated"}}</h3>
</div>{{end}}

{{define "event_stats"}}<div>
<h1>Event Log Stats</h1>
<table class="StatsTable">
<tbody>
{{range .EventCodes}}<tr><td>{{.}} Events Logged: {{index $.Fields .}}</td></tr>
{{end}}</tbody>
</table>
</div>{{end}}

{{define "audit"}}<div>
<h3>{{.Endpoint}}-{{.Token}}</h3>
<pre class="AuditRecord">{{.Raw}}</pre>
</div>{{end}}
`

// eventCodes are the event-type codes shown by event stats panels, in row
// order.
var eventCodes = []string{"0001", "0002", "0003", "0004"}

// renderData is the input to every panel template.
type renderData struct {
	Endpoint   string
	Token      string
	Raw        string
	Fields     map[string]string
	EventCodes []string
}

// renderer turns panel snapshots into HTML fragments.
type renderer struct {
	exec   func(w io.Writer, name string, data any) error
	logger *slog.Logger
}

func newRenderer(logger *slog.Logger) *renderer {
	tmpl := template.Must(template.New("panels").Parse(panelTemplates))
	return &renderer{
		exec:   tmpl.ExecuteTemplate,
		logger: logger,
	}
}

// Render returns the fragment for the panel's current state.
//
// Failed takes precedence over everything, then Loading; only a Loaded
// panel renders its data.
func (r *renderer) Render(p Panel, snap Snapshot) string {
	switch snap.State {
	case StateFailed:
		return r.execSafe(p, "error", renderData{})
	case StateLoading:
		return r.execSafe(p, "loading", renderData{})
	}

	return r.execSafe(p, string(p.kind), renderData{
		Endpoint:   p.endpoint,
		Token:      snap.Token,
		Raw:        snap.Raw,
		Fields:     snap.Fields,
		EventCodes: eventCodes,
	})
}

// execSafe executes a template with panic recovery.
// A failed render logs the full context with a correlation ID and falls
// back to the error view carrying the same ID.
func (r *renderer) execSafe(p Panel, name string, data renderData) (html string) {
	defer func() {
		if rec := recover(); rec != nil {
			correlationID := uuid.NewString()
			r.logger.Error("panel render panic",
				"correlation_id", correlationID,
				"panel", p.name,
				"template", name,
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)
			html = errorFragment(correlationID)
		}
	}()

	var buf bytes.Buffer
	if err := r.exec(&buf, name, data); err != nil {
		correlationID := uuid.NewString()
		r.logger.Error("panel render failed",
			"correlation_id", correlationID,
			"panel", p.name,
			"template", name,
			"error", err,
		)
		return errorFragment(correlationID)
	}
	return buf.String()
}

// errorFragment is the error view built without the template set, for use
// when executing a template is what failed.
func errorFragment(correlationID string) string {
	return fmt.Sprintf(`<div class="error" data-correlation-id="%s">Error found when fetching from API</div>`,
		template.HTMLEscapeString(correlationID))
}
