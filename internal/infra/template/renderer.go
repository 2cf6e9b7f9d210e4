package template

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
	"text/template/parse"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// Approved WhatsApp templates. Placeholders are keys of the variable bag.
var definitions = map[string]string{
	"lead_welcome_v1":             "Hey {{.firstName}}, danke für deine Anfrage 🙌 Ich hätte kurz 2 Fragen. Passt das?",
	"lead_nudge_v1":               "Kurzer Reminder zu meiner Frage von eben 🙂 Wenn du magst, antworte einfach mit Ja.",
	"lead_followup_24h_v1":        "Hi {{.firstName}}, im Call zeige ich dir den Bot live. Soll ich dir einen Slot schicken?",
	"lead_followup_48h_v1":        "Wenn du willst, starten wir risikofrei als Pilot. Soll ich dir 2 Terminvorschläge senden?",
	"appointment_reminder_22h_v1": "Reminder zu deinem Termin morgen um {{.time}}. Wie viele Leads/Monat habt ihr aktuell?",
	"appointment_reminder_55m_v1": "In 55 Minuten geht's los 👍 Hier ist nochmal dein Link: {{.link}}",
	"appointment_reminder_5m_v1":  "Start in 5 Minuten – bis gleich 👋",
}

// Renderer parses every template once and renders them by name.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() *Renderer {
	r := &Renderer{templates: make(map[string]*template.Template, len(definitions))}
	for name, body := range definitions {
		// missingkey=zero renders absent variables as empty strings.
		r.templates[name] = template.Must(template.New(name).Option("missingkey=zero").Parse(body))
	}
	return r
}

func (r *Renderer) Render(name string, vars map[string]string) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrUnknownTemplate, name)
	}
	if vars == nil {
		vars = map[string]string{}
	}

	var body bytes.Buffer
	if err := t.Execute(&body, vars); err != nil {
		return "", fmt.Errorf("error rendering template %s: %w", name, err)
	}
	return body.String(), nil
}

func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parameters returns the values of the variables the template references, in the
// order they appear. This is the positional parameter list the provider expects.
func (r *Renderer) Parameters(name string, vars map[string]string) []string {
	t, ok := r.templates[name]
	if !ok || t.Tree == nil {
		return nil
	}

	var params []string
	for _, node := range t.Tree.Root.Nodes {
		action, ok := node.(*parse.ActionNode)
		if !ok || len(action.Pipe.Cmds) == 0 || len(action.Pipe.Cmds[0].Args) == 0 {
			continue
		}
		field, ok := action.Pipe.Cmds[0].Args[0].(*parse.FieldNode)
		if !ok || len(field.Ident) == 0 {
			continue
		}
		params = append(params, vars[field.Ident[0]])
	}
	return params
}
