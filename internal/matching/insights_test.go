// internal/matching/insights_test.go
package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsights_EmptyResultSet(t *testing.T) {
	engine := newTestEngine(t)

	insights := engine.Insights(nil)
	assert.Equal(t, TierCounts{}, insights.TierCounts)
	assert.Equal(t, 0, insights.AverageScore)
	assert.Empty(t, insights.TopReasons)

	insights = engine.Insights([]MatchResult{})
	assert.Equal(t, 0, insights.AverageScore)
	assert.Empty(t, insights.TopReasons)
}

func TestInsights_TierCountsAndAverage(t *testing.T) {
	engine := newTestEngine(t)
	matches := []MatchResult{
		{AdvocateID: "a", Score: 90, Confidence: ConfidenceHigh, Reasons: []string{"exact industry match (SaaS)"}},
		{AdvocateID: "b", Score: 85, Confidence: ConfidenceHigh, Reasons: []string{"exact industry match (SaaS)"}},
		{AdvocateID: "c", Score: 70, Confidence: ConfidenceMedium, Reasons: []string{"high availability (90/100)"}},
		{AdvocateID: "d", Score: 40, Confidence: ConfidenceLow, Reasons: nil},
		{AdvocateID: "e", Score: 35, Confidence: ConfidenceLow, Reasons: nil},
	}

	insights := engine.Insights(matches)
	assert.Equal(t, TierCounts{High: 2, Medium: 1, Low: 2}, insights.TierCounts)
	assert.Equal(t, 64, insights.AverageScore) // round(320/5)

	require.NotEmpty(t, insights.TopReasons)
	assert.Equal(t, ReasonCount{Reason: "exact industry match (SaaS)", Count: 2}, insights.TopReasons[0])
}

func TestInsights_TopReasonsCapAndOrdering(t *testing.T) {
	engine := newTestEngine(t)

	// Seven distinct reasons: six singletons and one dominant.
	matches := []MatchResult{
		{AdvocateID: "a", Score: 50, Confidence: ConfidenceLow, Reasons: []string{
			"dominant reason", "reason f", "reason e",
		}},
		{AdvocateID: "b", Score: 50, Confidence: ConfidenceLow, Reasons: []string{
			"dominant reason", "reason d", "reason c",
		}},
		{AdvocateID: "c", Score: 50, Confidence: ConfidenceLow, Reasons: []string{
			"dominant reason", "reason b", "reason a",
		}},
	}

	insights := engine.Insights(matches)
	require.Len(t, insights.TopReasons, 5)
	assert.Equal(t, "dominant reason", insights.TopReasons[0].Reason)
	assert.Equal(t, 3, insights.TopReasons[0].Count)

	// Ties resolve lexicographically, so the singleton slots are a through d.
	for i, expected := range []string{"reason a", "reason b", "reason c", "reason d"} {
		assert.Equal(t, expected, insights.TopReasons[i+1].Reason)
		assert.Equal(t, 1, insights.TopReasons[i+1].Count)
	}
}

func TestInsights_MatchesEngineOutput(t *testing.T) {
	engine := newTestEngine(t)
	pool := createTestPool()
	crit := DefaultCriteria()
	crit.MinScore = 0

	outcome, err := engine.Match(pool, createTestOpportunity(), &crit)
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 2)

	insights := engine.Insights(outcome.Matches)
	assert.Equal(t, TierCounts{Low: 2}, insights.TierCounts)
	assert.Equal(t, outcome.Stats.AverageScore, insights.AverageScore)
	for _, rc := range insights.TopReasons {
		assert.Greater(t, rc.Count, 0, fmt.Sprintf("reason %q", rc.Reason))
	}
}
