package models

// NotificationKind selects the message shape.
type NotificationKind string

const (
	NotificationSuccess           NotificationKind = "success"
	NotificationValidationFailure NotificationKind = "validation_failure"
	NotificationTechnicalFailure  NotificationKind = "technical_failure"
)

// Attachment is a file carried by a message.
type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Message is one outbound email. HTML is set for rich bodies, Text otherwise.
type Message struct {
	Kind        NotificationKind
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}
