// internal/workers/advocacy/analyze-match-insights/handler_test.go
package analyzematchinsights

import (
	"context"
	"testing"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func createTestHandler(t *testing.T) *Handler {
	engine, err := matching.NewEngine(matching.DefaultConfig())
	require.NoError(t, err)
	return NewHandler(createTestConfig(), engine, newTestLogger(t))
}

func result(id string, score int, confidence matching.Confidence, reasons ...string) matching.MatchResult {
	return matching.MatchResult{
		AdvocateID: id,
		Score:      score,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_TierAndReasonSummary(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		Matches: []matching.MatchResult{
			result("adv-1", 92, matching.ConfidenceHigh, "exact industry match (Healthcare)", "high availability (90/100)"),
			result("adv-2", 85, matching.ConfidenceHigh, "exact industry match (Healthcare)", "exact region match (Europe)"),
			result("adv-3", 64, matching.ConfidenceMedium, "exact industry match (Healthcare)"),
			result("adv-4", 41, matching.ConfidenceLow, "high availability (90/100)"),
		},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, output)

	assert.Equal(t, 2, output.Insights.TierCounts.High)
	assert.Equal(t, 1, output.Insights.TierCounts.Medium)
	assert.Equal(t, 1, output.Insights.TierCounts.Low)
	// (92+85+64+41)/4 = 70.5 rounds to 71
	assert.Equal(t, 71, output.Insights.AverageScore)

	require.NotEmpty(t, output.Insights.TopReasons)
	assert.Equal(t, "exact industry match (Healthcare)", output.Insights.TopReasons[0].Reason)
	assert.Equal(t, 3, output.Insights.TopReasons[0].Count)
	assert.Equal(t, "high availability (90/100)", output.Insights.TopReasons[1].Reason)
	assert.Equal(t, 2, output.Insights.TopReasons[1].Count)

	assert.Equal(t, QualityStrong, output.PoolQuality)
}

func TestHandler_Execute_PoolQualityLabels(t *testing.T) {
	tests := []struct {
		name     string
		matches  []matching.MatchResult
		expected string
	}{
		{
			name: "three high tier results are excellent",
			matches: []matching.MatchResult{
				result("adv-1", 95, matching.ConfidenceHigh),
				result("adv-2", 88, matching.ConfidenceHigh),
				result("adv-3", 82, matching.ConfidenceHigh),
			},
			expected: QualityExcellent,
		},
		{
			name: "single high tier result is strong",
			matches: []matching.MatchResult{
				result("adv-1", 85, matching.ConfidenceHigh),
				result("adv-2", 40, matching.ConfidenceLow),
			},
			expected: QualityStrong,
		},
		{
			name: "medium tier only is adequate",
			matches: []matching.MatchResult{
				result("adv-1", 65, matching.ConfidenceMedium),
			},
			expected: QualityAdequate,
		},
		{
			name: "low tier only is weak",
			matches: []matching.MatchResult{
				result("adv-1", 35, matching.ConfidenceLow),
				result("adv-2", 31, matching.ConfidenceLow),
			},
			expected: QualityWeak,
		},
		{
			name:     "no matches is empty",
			matches:  []matching.MatchResult{},
			expected: QualityEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)

			output, err := handler.Execute(context.Background(), &Input{Matches: tt.matches})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.PoolQuality)
		})
	}
}

func TestHandler_Execute_EmptyInput(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Equal(t, QualityEmpty, output.PoolQuality)
	assert.Equal(t, 0, output.Insights.AverageScore)
	assert.Empty(t, output.Insights.TopReasons)
	assert.NotNil(t, output.Insights.TopReasons)
}

func TestHandler_Execute_ReasonListCapped(t *testing.T) {
	handler := createTestHandler(t)

	matches := []matching.MatchResult{
		result("adv-1", 90, matching.ConfidenceHigh,
			"reason-a", "reason-b", "reason-c", "reason-d", "reason-e", "reason-f", "reason-g"),
	}

	output, err := handler.Execute(context.Background(), &Input{Matches: matches})

	require.NoError(t, err)
	assert.Len(t, output.Insights.TopReasons, 5)
	// Equal counts fall back to lexicographic order.
	assert.Equal(t, "reason-a", output.Insights.TopReasons[0].Reason)
	assert.Equal(t, "reason-e", output.Insights.TopReasons[4].Reason)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrNilInput)
}
