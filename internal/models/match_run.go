// internal/models/match_run.go
package models

// MatchRun is the persisted record of one matching execution. RequestID is
// the caller's idempotency token; a second run with the same token is
// rejected as a duplicate.
type MatchRun struct {
	ID                string `json:"id"`
	RequestID         string `json:"requestId,omitempty"`
	OpportunityID     string `json:"opportunityId"`
	ProgramID         string `json:"programId"`
	RequestedBy       string `json:"requestedBy,omitempty"`
	TotalAdvocates    int    `json:"totalAdvocates"`
	EligibleAdvocates int    `json:"eligibleAdvocates"`
	MatchesFound      int    `json:"matchesFound"`
	TopScore          int    `json:"topScore"`
	AverageScore      int    `json:"averageScore"`
	TopAdvocateID     string `json:"topAdvocateId,omitempty"`
	Status            string `json:"status"` // "completed", "no_match", "failed"
	CreatedAt         string `json:"createdAt"`
}
