// internal/workers/advocacy/analyze-match-insights/models.go
package analyzematchinsights

import "advocacy-workers/internal/matching"

type Input struct {
	Matches []matching.MatchResult `json:"matches"`
}

type Output struct {
	Insights    matching.MatchInsights `json:"matchInsights"`
	PoolQuality string                 `json:"poolQuality"`
}
