// internal/matching/insights.go
package matching

import "sort"

const topReasonLimit = 5

// Insights summarizes a result set: results per confidence tier, average
// score, and the most frequent match reasons. An empty input yields a zeroed
// structure; this never errors.
func (e *Engine) Insights(matches []MatchResult) MatchInsights {
	insights := MatchInsights{TopReasons: []ReasonCount{}}
	if len(matches) == 0 {
		return insights
	}

	reasonCounts := make(map[string]int)
	for _, m := range matches {
		switch m.Confidence {
		case ConfidenceHigh:
			insights.TierCounts.High++
		case ConfidenceMedium:
			insights.TierCounts.Medium++
		default:
			insights.TierCounts.Low++
		}
		for _, reason := range m.Reasons {
			reasonCounts[reason]++
		}
	}
	insights.AverageScore = averageScore(matches)

	ranked := make([]ReasonCount, 0, len(reasonCounts))
	for reason, count := range reasonCounts {
		ranked = append(ranked, ReasonCount{Reason: reason, Count: count})
	}
	// Count descending, then lexicographic, so the top list is stable.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Reason < ranked[j].Reason
	})
	if len(ranked) > topReasonLimit {
		ranked = ranked[:topReasonLimit]
	}
	insights.TopReasons = ranked
	return insights
}
