package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Template names used by the registration flows.
const (
	TemplateStudentApproved  = "student_approved"
	TemplateStudentRejected  = "student_rejected"
	TemplateRequestApproved  = "request_approved"
	TemplateRequestRejected  = "request_rejected"
)

type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		// Built-ins are compile-time constants; a parse failure is a bug.
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, ok := tm.templates[name]
	tm.mutex.RUnlock()
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name, body string) error {
	tpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

var builtinTemplates = map[string]string{
	TemplateStudentApproved: `<h2>Welcome, {{.Name}}!</h2>
<p>Your enrollment at {{.School}} has been approved.</p>
<p>Sign in with:</p>
<ul>
  <li>Email: <b>{{.Email}}</b></li>
  <li>Password: <b>{{.Password}}</b></li>
</ul>
<p>Please change the password after your first login.</p>`,

	TemplateStudentRejected: `<h2>Hello, {{.Name}}</h2>
<p>Unfortunately your enrollment application at {{.School}} was not approved.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,

	TemplateRequestApproved: `<h2>Hello, {{.Name}}</h2>
<p>Your request{{if .Subject}} for {{.Subject}}{{end}} has been approved.</p>`,

	TemplateRequestRejected: `<h2>Hello, {{.Name}}</h2>
<p>Your request{{if .Subject}} for {{.Subject}}{{end}} was not approved.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,
}
