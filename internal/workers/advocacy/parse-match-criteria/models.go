// internal/workers/advocacy/parse-match-criteria/models.go
package parsematchcriteria

import "advocacy-workers/internal/matching"

type Input struct {
	RawCriteria map[string]interface{} `json:"rawCriteria"`
}

type Output struct {
	Criteria matching.MatchingCriteria `json:"matchingCriteria"`
}
