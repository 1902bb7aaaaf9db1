package syncopportunity

import (
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"
)

type Input struct {
	OpportunityID  string                 `json:"opportunityId"`
	Direction      string                 `json:"direction,omitempty"` // "pull" (default) or "push"
	ProgramID      string                 `json:"programId,omitempty"`
	PrimaryContact *ContactInfo           `json:"primaryContact,omitempty"`
	TopMatch       *matching.MatchResult  `json:"topMatch,omitempty"`
	MatchStatus    string                 `json:"matchStatus,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// ContactInfo is the prospect contact to upsert into the CRM during a pull.
type ContactInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

type Output struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	Opportunity *matching.Opportunity `json:"opportunity,omitempty"`
	DealStage   string                `json:"dealStage,omitempty"`
	ContactID   string                `json:"contactId,omitempty"`
	CRMProvider string                `json:"crmProvider,omitempty"`
	SyncedAt    time.Time             `json:"syncedAt,omitempty"`
}

const (
	DirectionPull = "pull"
	DirectionPush = "push"
)

// Match_Status values written onto the Zoho deal.
const (
	MatchStatusInProgress = "matching_in_progress"
	MatchStatusFound      = "match_found"
	MatchStatusNone       = "no_match"
)

type ServiceDependencies struct {
	Logger logger.Logger
	CRM    CRMClient
}
