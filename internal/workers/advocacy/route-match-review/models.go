// internal/workers/advocacy/route-match-review/models.go
package routematchreview

import "advocacy-workers/internal/matching"

type Input struct {
	ProgramID  string                `json:"programId"`
	TopMatch   *matching.MatchResult `json:"topMatch,omitempty"`
	HasMatches bool                  `json:"hasMatches"`
}

type Output struct {
	Decision         string `json:"reviewDecision"`
	ReviewPriority   string `json:"reviewPriority"`
	IsPremiumProgram bool   `json:"isPremiumProgram"`
}

// Review decisions for the advocate-request workflow.
const (
	DecisionAutoOutreach = "auto_outreach"
	DecisionManualReview = "manual_review"
	DecisionNoMatch      = "no_match"
)

// Review priorities
const (
	PriorityExpedited = "expedited"
	PriorityNormal    = "normal"
)
