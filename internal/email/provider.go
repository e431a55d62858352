package email

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData feeds the named templates.
type TemplateData map[string]interface{}

// Provider sends mail. The SMTP implementation is the only one in use;
// tests swap in a recorder.
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data TemplateData) error
	Validate() error
}
