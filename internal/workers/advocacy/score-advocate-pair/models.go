// internal/workers/advocacy/score-advocate-pair/models.go
package scoreadvocatepair

import "advocacy-workers/internal/matching"

type Input struct {
	AdvocateID  string               `json:"advocateId"`
	Advocate    *matching.Advocate   `json:"advocate,omitempty"`
	Opportunity matching.Opportunity `json:"opportunity"`
}

type Output struct {
	Match      matching.MatchResult `json:"match"`
	MatchScore int                  `json:"matchScore"`
	Confidence matching.Confidence  `json:"confidence"`
}
