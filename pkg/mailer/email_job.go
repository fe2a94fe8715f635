package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names one of the embedded templates; Data holds its variables.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
