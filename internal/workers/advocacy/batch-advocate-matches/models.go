// internal/workers/advocacy/batch-advocate-matches/models.go
package batchadvocatematches

import "advocacy-workers/internal/matching"

type Input struct {
	Opportunities []matching.Opportunity     `json:"opportunities"`
	Criteria      *matching.MatchingCriteria `json:"matchingCriteria,omitempty"`
	Candidates    []matching.Advocate        `json:"candidates,omitempty"`
	ProgramID     string                     `json:"programId,omitempty"`
}

type Output struct {
	Matches    []matching.MatchResult          `json:"matches"`
	Stats      matching.MatchingStats          `json:"matchingStats"`
	TopMatches map[string]matching.MatchResult `json:"topMatches,omitempty"`
	HasMatches bool                            `json:"hasMatches"`
}
