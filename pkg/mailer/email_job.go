package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either set Template and Data, or provide Subject/Text/HTML directly.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "welcome_business"
	Data     map[string]any `json:"data,omitempty"`
	TenantID string         `json:"tenant_id,omitempty"`
}
