// internal/models/outreach.go
package models

// OutreachRequest tracks one advocate contact attempt spawned from a match.
type OutreachRequest struct {
	ID            string `json:"id"`
	MatchRunID    string `json:"matchRunId"`
	AdvocateID    string `json:"advocateId"`
	OpportunityID string `json:"opportunityId"`
	TemplateID    string `json:"templateId"`
	Channel       string `json:"channel"` // "email", "sms"
	Status        string `json:"status"`  // "pending", "sent", "declined"
	CreatedAt     string `json:"createdAt"`
}
