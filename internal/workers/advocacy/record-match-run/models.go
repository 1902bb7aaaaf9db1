// internal/workers/advocacy/record-match-run/models.go
package recordmatchrun

import "advocacy-workers/internal/matching"

type Input struct {
	RequestID     string                 `json:"requestId"`
	OpportunityID string                 `json:"opportunityId"`
	ProgramID     string                 `json:"programId"`
	RequestedBy   string                 `json:"requestedBy"`
	Stats         matching.MatchingStats `json:"matchingStats"`
	TopMatch      *matching.MatchResult  `json:"topMatch,omitempty"`
}

type Output struct {
	MatchRunID string `json:"matchRunId"`
	RunStatus  string `json:"runStatus"`
	CreatedAt  string `json:"createdAt"` // ISO 8601
}
