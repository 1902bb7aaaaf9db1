// internal/workers/advocacy/notify-top-match/models.go
package notifytopmatch

import "advocacy-workers/internal/matching"

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "advocate" or "account_team"
	NotificationType string                 `json:"notificationType"`
	TemplateID       string                 `json:"templateId,omitempty"`
	OpportunityID    string                 `json:"opportunityId,omitempty"`
	MatchRunID       string                 `json:"matchRunId,omitempty"`
	ReviewPriority   string                 `json:"reviewPriority,omitempty"`
	TopMatch         *matching.MatchResult  `json:"topMatch,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	OutreachID string            `json:"outreachId"`
	Status     string            `json:"status"`   // "sent", "failed", "disabled"
	Channels   map[string]string `json:"channels"` // delivery outcome per channel
	SentAt     string            `json:"sentAt"`   // ISO 8601
}

// Notification types
const (
	TypeTopMatchFound   = "top_match_found"
	TypeReviewRequested = "match_review_requested"
)

// Template ids; the outreach template selector hands one of these over
const (
	TemplateTopMatchStandard = "top_match_standard"
	TemplateTopMatchPremium  = "top_match_premium"
	TemplateReviewStandard   = "match_review_standard"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Per-channel outcomes
const (
	ChannelSent    = "sent"
	ChannelFailed  = "failed"
	ChannelSkipped = "skipped"
)

// Recipient types
const (
	RecipientTypeAdvocate    = "advocate"
	RecipientTypeAccountTeam = "account_team"
)
