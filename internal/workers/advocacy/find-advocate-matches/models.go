// internal/workers/advocacy/find-advocate-matches/models.go
package findadvocatematches

import "advocacy-workers/internal/matching"

type Input struct {
	Opportunity matching.Opportunity       `json:"opportunity"`
	Criteria    *matching.MatchingCriteria `json:"matchingCriteria,omitempty"`
	Candidates  []matching.Advocate        `json:"candidates,omitempty"`
	ProgramID   string                     `json:"programId,omitempty"`
}

type Output struct {
	Matches    []matching.MatchResult `json:"matches"`
	Stats      matching.MatchingStats `json:"matchingStats"`
	TopMatch   *matching.MatchResult  `json:"topMatch,omitempty"`
	HasMatches bool                   `json:"hasMatches"`
}
