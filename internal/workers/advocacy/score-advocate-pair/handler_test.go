// internal/workers/advocacy/score-advocate-pair/handler_test.go
package scoreadvocatepair

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  5 * time.Second,
	}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func createTestEngine(t *testing.T) *matching.Engine {
	engine, err := matching.NewEngine(matching.DefaultConfig())
	require.NoError(t, err)
	return engine
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	return NewHandler(createTestConfig(), createTestEngine(t), db, redisClient, newTestLogger(t))
}

func strPtr(s string) *string { return &s }

func createTestOpportunity() matching.Opportunity {
	return matching.Opportunity{
		ID:                    "opp-100",
		ProspectIndustry:      strPtr("Healthcare"),
		ProspectSize:          strPtr("51-200"),
		GeographicRegion:      strPtr("North America"),
		UseCase:               strPtr("claims-automation"),
		DesiredExpertiseAreas: []string{"implementation"},
	}
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

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WithProvidedAdvocate(t *testing.T) {
	tests := []struct {
		name           string
		advocate       *matching.Advocate
		opportunity    matching.Opportunity
		expectedScore  int
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "perfect match",
			advocate: &matching.Advocate{
				ID:                "adv-1",
				Name:              "Dana Reyes",
				Industry:          strPtr("Healthcare"),
				CompanySize:       strPtr("51-200"),
				GeographicRegion:  strPtr("North America"),
				UseCases:          []string{"claims-automation"},
				ExpertiseAreas:    []string{"implementation"},
				AvailabilityScore: 85,
				Status:            matching.StatusActive,
			},
			opportunity:   createTestOpportunity(),
			expectedScore: 100,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, matching.ConfidenceHigh, output.Confidence)
				assert.Len(t, output.Match.Reasons, 6)
			},
		},
		{
			name: "adjacent size and partial use case overlap",
			advocate: &matching.Advocate{
				ID:                "adv-2",
				Industry:          strPtr("Healthcare"),
				CompanySize:       strPtr("51-200"),
				GeographicRegion:  strPtr("North America"),
				UseCases:          []string{"claims-automation"},
				AvailabilityScore: 70,
				Status:            matching.StatusActive,
			},
			opportunity: matching.Opportunity{
				ID:               "opp-2",
				ProspectIndustry: strPtr("Healthcare"),
				ProspectSize:     strPtr("201-500"),
				GeographicRegion: strPtr("North America"),
				DesiredUseCases:  []string{"claims-automation", "fraud-detection"},
			},
			// 25 + 80*0.15 + 50*0.20 + 0 + 10 + 75*0.10 = 64.5 rounds to 65
			expectedScore: 65,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, matching.ConfidenceMedium, output.Confidence)
			},
		},
		{
			name: "sparse advocate against empty opportunity",
			advocate: &matching.Advocate{
				ID:     "adv-3",
				Status: matching.StatusActive,
			},
			opportunity:   matching.Opportunity{ID: "opp-3"},
			expectedScore: 0,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, matching.ConfidenceLow, output.Confidence)
				assert.Empty(t, output.Match.Reasons)
			},
		},
		{
			name: "related industry through synonym table",
			advocate: &matching.Advocate{
				ID:                "adv-4",
				Industry:          strPtr("Software"),
				AvailabilityScore: 90,
				Status:            matching.StatusActive,
			},
			opportunity: matching.Opportunity{
				ID:               "opp-4",
				ProspectIndustry: strPtr("Technology"),
			},
			// 60*0.25 + 0 + 0 + 0 + 0 + 10 = 25
			expectedScore: 25,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Contains(t, output.Match.Reasons[0], "related industry")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := setupMockDB(t)
			_, redisClient := setupRedis(t)
			handler := createTestHandler(t, db, redisClient)

			input := &Input{
				Advocate:    tt.advocate,
				Opportunity: tt.opportunity,
			}

			output, err := handler.Execute(context.Background(), input)

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectedScore, output.MatchScore)
			assert.Equal(t, output.Match.Score, output.MatchScore)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

// ==========================
// Database & Cache Tests
// ==========================

func TestHandler_Execute_FetchAdvocate(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	useCases, _ := json.Marshal([]string{"claims-automation"})
	expertise, _ := json.Marshal([]string{"implementation"})

	mock.ExpectQuery("SELECT name, industry").
		WithArgs("adv-123").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "industry", "company_size", "geographic_region",
			"use_cases", "expertise_areas", "availability_score", "status",
		}).AddRow("Dana Reyes", "Healthcare", "51-200", "North America",
			useCases, expertise, 85, "active"))

	input := &Input{
		AdvocateID:  "adv-123",
		Opportunity: createTestOpportunity(),
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 100, output.MatchScore)
	assert.Equal(t, matching.ConfidenceHigh, output.Confidence)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Profile should now be cached for the next run.
	assert.True(t, mr.Exists("advocate:profile:adv-123"))
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	cached, _ := json.Marshal(matching.Advocate{
		ID:                "adv-9",
		Industry:          strPtr("Finance"),
		AvailabilityScore: 90,
		Status:            matching.StatusActive,
	})
	require.NoError(t, mr.Set("advocate:profile:adv-9", string(cached)))

	input := &Input{
		AdvocateID: "adv-9",
		Opportunity: matching.Opportunity{
			ID:               "opp-9",
			ProspectIndustry: strPtr("Finance"),
		},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	// 100*0.25 + availability 100*0.10 = 35
	assert.Equal(t, 35, output.MatchScore)
	// No SQL expectations were set, so any query would have failed the test.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InlineAdvocateSkipsLookup(t *testing.T) {
	db, mock := setupMockDB(t)
	_, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	input := &Input{
		AdvocateID: "adv-55",
		Advocate: &matching.Advocate{
			ID:                "adv-55",
			AvailabilityScore: 80,
			Status:            matching.StatusActive,
		},
		Opportunity: matching.Opportunity{ID: "opp-55"},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 10, output.MatchScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_AdvocateNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	_, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	mock.ExpectQuery("SELECT name, industry").
		WithArgs("adv-missing").
		WillReturnError(sql.ErrNoRows)

	input := &Input{
		AdvocateID:  "adv-missing",
		Opportunity: createTestOpportunity(),
	}

	output, err := handler.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrAdvocateNotFound)
}

func TestHandler_Execute_MissingAdvocate(t *testing.T) {
	db, _ := setupMockDB(t)
	_, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	input := &Input{
		Opportunity: createTestOpportunity(),
	}

	output, err := handler.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrScoreFailed)
	assert.NotErrorIs(t, err, ErrAdvocateNotFound)
}

func TestHandler_Execute_BlankAdvocateID(t *testing.T) {
	db, _ := setupMockDB(t)
	_, redisClient := setupRedis(t)
	handler := createTestHandler(t, db, redisClient)

	input := &Input{
		Advocate:    &matching.Advocate{Name: "No ID", Status: matching.StatusActive},
		Opportunity: createTestOpportunity(),
	}

	output, err := handler.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrScoreFailed)
}
