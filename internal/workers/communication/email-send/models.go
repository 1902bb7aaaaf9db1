package emailsend

import (
	"advocacy-workers/internal/common/logger"
	"time"
)

type Input struct {
	From          string                 `json:"from,omitempty"`
	To            string                 `json:"to"`
	CC            string                 `json:"cc,omitempty"`
	BCC           string                 `json:"bcc,omitempty"`
	ReplyTo       string                 `json:"replyTo,omitempty"`
	Subject       string                 `json:"subject"`
	Body          string                 `json:"body"`
	IsHTML        bool                   `json:"isHtml"`
	Priority      string                 `json:"priority,omitempty"`
	OutreachID    string                 `json:"outreachId,omitempty"`
	OpportunityID string                 `json:"opportunityId,omitempty"`
	AdvocateID    string                 `json:"advocateId,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"messageId,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
