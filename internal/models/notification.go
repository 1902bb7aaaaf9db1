// internal/models/notification.go
package models

// NotificationTemplate is one renderable outreach message. Subject and Body
// carry {{placeholder}} tokens filled in at send time; HTMLBody, when set,
// replaces Body as the HTML part of an email.
type NotificationTemplate struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "top_match_found", "match_review_requested"
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
}
