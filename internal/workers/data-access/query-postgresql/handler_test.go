package querypostgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/models"
	"advocacy-workers/internal/workers/data-access/query-postgresql/queries"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createBenchmarkLogger(b *testing.B) logger.Logger {
	// Create a production-like logger for benchmarks
	zapLogger, _ := zap.NewProduction()
	return logger.NewZapAdapter(zapLogger)
}

func createValidInput(queryType models.QueryType) *Input {
	input := &Input{
		QueryType: string(queryType),
	}

	switch queryType {
	case models.QueryTypeAdvocateProfile:
		input.AdvocateID = "advocate-123"
	case models.QueryTypeAdvocatePool:
		input.ProgramID = "program-123"
	case models.QueryTypeAdvocateEngagements:
		input.AdvocateID = "advocate-123"
	case models.QueryTypeOpportunityDetails:
		input.OpportunityID = "opp-123"
	case models.QueryTypeProgramDetails:
		input.ProgramID = "program-123"
	}

	return input
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		queryType      models.QueryType
		mockQuery      func(mock sqlmock.Sqlmock)
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "advocate profile",
			queryType: models.QueryTypeAdvocateProfile,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "industry", "company_size", "geographic_region",
					"use_cases", "expertise_areas", "availability_score", "status",
					"contact_email", "contact_phone",
				}).AddRow(
					"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
					`["fraud-detection","payments"]`, `["api-integration"]`, 85, "active",
					"dana@example.com", "+442071234567",
				)
				mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
					WithArgs("advocate-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "advocate-123", data["id"])
				assert.Equal(t, "Dana Whitfield", data["name"])
				assert.Equal(t, "fintech", data["industry"])
				assert.Equal(t, []string{"fraud-detection", "payments"}, data["useCases"])
				assert.Equal(t, 85, data["availabilityScore"])
				assert.Equal(t, "active", data["status"])
				assert.Equal(t, "dana@example.com", data["contactEmail"])
			},
		},
		{
			name:      "advocate pool for program",
			queryType: models.QueryTypeAdvocatePool,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "industry", "company_size", "geographic_region",
					"use_cases", "expertise_areas", "availability_score", "status",
				}).AddRow(
					"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
					`["fraud-detection"]`, `["api-integration"]`, 85, "active",
				).AddRow(
					"advocate-456", "Marcus Obi", "healthcare", "51-200", "na-east",
					`["patient-portal"]`, `[]`, 60, "active",
				)
				mock.ExpectQuery(`SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region, a.use_cases, a.expertise_areas, a.availability_score, a.status FROM advocates a JOIN program_advocates pa ON pa.advocate_id = a.id WHERE pa.program_id = \$1`).
					WithArgs("program-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.([]map[string]interface{})
				assert.Equal(t, 2, len(data))
				assert.Equal(t, "advocate-123", data[0]["id"])
				assert.Equal(t, 85, data[0]["availabilityScore"])
				assert.Equal(t, "advocate-456", data[1]["id"])
				assert.Equal(t, "healthcare", data[1]["industry"])
			},
		},
		{
			name:      "advocate engagements",
			queryType: models.QueryTypeAdvocateEngagements,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "advocate_id", "opportunity_id", "engagement_type", "status", "occurred_at",
				}).AddRow(
					"eng-2", "advocate-123", "opp-042", "reference_call", "completed",
					time.Date(2024, 6, 12, 15, 4, 0, 0, time.UTC),
				).AddRow(
					"eng-1", "advocate-123", nil, "case_study", "declined",
					time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
				)
				mock.ExpectQuery(`SELECT id, advocate_id, opportunity_id, engagement_type, status, occurred_at FROM advocate_engagements WHERE advocate_id = \$1 ORDER BY occurred_at DESC LIMIT \$2`).
					WithArgs("advocate-123", 25).
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.([]map[string]interface{})
				assert.Equal(t, 2, len(data))
				assert.Equal(t, "eng-2", data[0]["id"])
				assert.Equal(t, "reference_call", data[0]["engagementType"])
				assert.Equal(t, "2024-06-12T15:04:00Z", data[0]["occurredAt"])
				assert.Nil(t, data[1]["opportunityId"])
			},
		},
		{
			name:      "opportunity details",
			queryType: models.QueryTypeOpportunityDetails,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "prospect_industry", "prospect_size", "geographic_region", "use_case",
					"stage", "program_id", "created_at",
				}).AddRow(
					"opp-123", "fintech", "201-1000", "emea", "fraud-detection",
					"Proposal", "program-123", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				)
				mock.ExpectQuery(`SELECT id, prospect_industry, prospect_size, geographic_region, use_case, stage, program_id, created_at FROM opportunities WHERE id = \$1`).
					WithArgs("opp-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "opp-123", data["id"])
				assert.Equal(t, "fintech", data["prospectIndustry"])
				assert.Equal(t, "Proposal", data["stage"])
				assert.Equal(t, "program-123", data["programId"])
				assert.Equal(t, "2024-05-01T12:00:00Z", data["createdAt"])
			},
		},
		{
			name:      "program details",
			queryType: models.QueryTypeProgramDetails,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "tier", "monthly_match_limit", "owner_email", "active",
				}).AddRow(
					"program-123", "Enterprise Reference Program", "premium", 50,
					"owner@example.com", true,
				)
				mock.ExpectQuery(`SELECT id, name, tier, monthly_match_limit, owner_email, active FROM programs WHERE id = \$1`).
					WithArgs("program-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "program-123", data["id"])
				assert.Equal(t, "premium", data["tier"])
				assert.Equal(t, 50, data["monthlyMatchLimit"])
				assert.Equal(t, true, data["active"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.mockQuery(mock)

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			input := createValidInput(tt.queryType)

			output, err := handler.execute(context.Background(), input)

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())

			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	// Mock will delay to simulate timeout - use a channel to control timing
	done := make(chan bool)
	mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
		WithArgs("advocate-123").
		WillDelayFor(200 * time.Millisecond). // Longer than timeout
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("advocate-123"))

	config := createTestConfig()
	config.Timeout = 50 * time.Millisecond // Very short timeout

	handler := NewHandler(config, db, createTestLogger(t))
	input := createValidInput(models.QueryTypeAdvocateProfile)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	output, err := handler.execute(ctx, input)

	// The test should timeout, but we need to handle both cases
	if err != nil {
		// Check if it's a timeout error or context deadline exceeded
		assert.True(t, errors.Is(err, ErrQueryTimeout) ||
			errors.Is(err, context.DeadlineExceeded) ||
			ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline"))
	} else {
		// If no error, output should be nil due to timeout
		assert.Nil(t, output)
	}

	close(done)
}

func TestHandler_Execute_QueryErrors(t *testing.T) {
	tests := []struct {
		name          string
		queryType     models.QueryType
		input         *Input
		mockQuery     func(mock sqlmock.Sqlmock)
		expectedErr   error
		errorContains string
	}{
		{
			name:      "unknown query type",
			queryType: models.QueryType("unknown_query"),
			input: &Input{
				QueryType: "unknown_query",
			},
			mockQuery: func(mock sqlmock.Sqlmock) {
				// No mock needed since it fails before DB call
			},
			expectedErr:   ErrInvalidQueryType,
			errorContains: "INVALID_QUERY_TYPE",
		},
		{
			name:      "database error",
			queryType: models.QueryTypeAdvocateProfile,
			input:     createValidInput(models.QueryTypeAdvocateProfile),
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
					WithArgs("advocate-123").
					WillReturnError(errors.New("database connection failed"))
			},
			expectedErr:   ErrQueryExecutionFailed,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
		{
			name:      "missing advocate ID",
			queryType: models.QueryTypeAdvocateProfile,
			input: &Input{
				QueryType: string(models.QueryTypeAdvocateProfile),
				// Missing AdvocateID
			},
			mockQuery: func(mock sqlmock.Sqlmock) {
				// No mock needed since it fails before DB call
			},
			expectedErr:   queries.ErrMissingParam,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
		{
			name:      "no rows found",
			queryType: models.QueryTypeAdvocateProfile,
			input:     createValidInput(models.QueryTypeAdvocateProfile),
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
					WithArgs("advocate-123").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr:   ErrQueryExecutionFailed,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			output, err := handler.execute(context.Background(), tt.input)

			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr) || errors.Is(err, ErrQueryExecutionFailed))
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Nil(t, output)
		})
	}
}

// ==========================
// Unit Tests - Parameter Handling
// ==========================

func TestHandler_Execute_ParameterHandling(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		mockQuery func(mock sqlmock.Sqlmock)
		validate  func(t *testing.T, output *Output, err error)
	}{
		{
			name: "status filter narrows the pool",
			input: &Input{
				QueryType: string(models.QueryTypeAdvocatePool),
				ProgramID: "program-123",
				Filters: map[string]interface{}{
					"status": "active",
				},
			},
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "industry", "company_size", "geographic_region",
					"use_cases", "expertise_areas", "availability_score", "status",
				}).AddRow(
					"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
					`["fraud-detection"]`, `[]`, 85, "active",
				).AddRow(
					"advocate-789", "Priya Nair", "fintech", "1000+", "apac",
					`["payments"]`, `[]`, 40, "inactive",
				)
				mock.ExpectQuery(`SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region, a.use_cases, a.expertise_areas, a.availability_score, a.status FROM advocates a JOIN program_advocates pa ON pa.advocate_id = a.id WHERE pa.program_id = \$1`).
					WithArgs("program-123").
					WillReturnRows(rows)
			},
			validate: func(t *testing.T, output *Output, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, output)
				assert.Equal(t, 1, output.RowCount)

				data := output.Data.([]map[string]interface{})
				assert.Equal(t, "advocate-123", data[0]["id"])
				assert.Equal(t, "active", data[0]["status"])
			},
		},
		{
			name: "pool without program returns all advocates",
			input: &Input{
				QueryType: string(models.QueryTypeAdvocatePool),
				// No ProgramID
			},
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "industry", "company_size", "geographic_region",
					"use_cases", "expertise_areas", "availability_score", "status",
				}).AddRow(
					"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
					`["fraud-detection"]`, `[]`, 85, "active",
				).AddRow(
					"advocate-456", "Marcus Obi", "healthcare", "51-200", "na-east",
					`["patient-portal"]`, `[]`, 60, "active",
				)
				mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status FROM advocates`).
					WillReturnRows(rows)
			},
			validate: func(t *testing.T, output *Output, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, output)
				assert.Equal(t, 2, output.RowCount)
			},
		},
		{
			name: "engagement limit is capped",
			input: &Input{
				QueryType:  string(models.QueryTypeAdvocateEngagements),
				AdvocateID: "advocate-123",
				Limit:      500,
			},
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "advocate_id", "opportunity_id", "engagement_type", "status", "occurred_at",
				}).AddRow(
					"eng-1", "advocate-123", "opp-042", "reference_call", "completed",
					time.Date(2024, 6, 12, 15, 4, 0, 0, time.UTC),
				)
				mock.ExpectQuery(`SELECT id, advocate_id, opportunity_id, engagement_type, status, occurred_at FROM advocate_engagements WHERE advocate_id = \$1 ORDER BY occurred_at DESC LIMIT \$2`).
					WithArgs("advocate-123", 100).
					WillReturnRows(rows)
			},
			validate: func(t *testing.T, output *Output, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, output)
				assert.Equal(t, 1, output.RowCount)
			},
		},
		{
			name: "missing opportunity ID",
			input: &Input{
				QueryType: string(models.QueryTypeOpportunityDetails),
				// Missing OpportunityID
			},
			validate: func(t *testing.T, output *Output, err error) {
				assert.Error(t, err)
				assert.Nil(t, output)
			},
		},
		{
			name: "missing program ID",
			input: &Input{
				QueryType: string(models.QueryTypeProgramDetails),
				// Missing ProgramID
			},
			validate: func(t *testing.T, output *Output, err error) {
				assert.Error(t, err)
				assert.Nil(t, output)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			output, err := handler.execute(context.Background(), tt.input)

			tt.validate(t, output, err)

			// Check if all expectations were met
			if tt.mockQuery != nil {
				if err := mock.ExpectationsWereMet(); err != nil {
					t.Errorf("there were unfulfilled expectations: %s", err)
				}
			}
		})
	}
}

// ==========================
// Edge Cases
// ==========================

func TestHandler_EdgeCases(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	t.Run("nil input", func(t *testing.T) {
		output, err := handler.execute(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "input cannot be nil")
		assert.Nil(t, output)
	})

	t.Run("nil database handle", func(t *testing.T) {
		input := createValidInput(models.QueryTypeAdvocateProfile)
		output, err := handler.execute(context.Background(), input)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrDatabaseConnectionFailed))
		assert.Nil(t, output)
	})

	t.Run("empty query type", func(t *testing.T) {
		db, _, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		input := &Input{
			QueryType: "", // Empty query type
		}
		handler := NewHandler(createTestConfig(), db, createTestLogger(t))
		output, err := handler.execute(context.Background(), input)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidQueryType))
		assert.Nil(t, output)
	})

	t.Run("cancelled context", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		// Mock will be called but context is cancelled - use exact query
		mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
			WithArgs("advocate-123").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("advocate-123"))

		handler := NewHandler(createTestConfig(), db, createTestLogger(t))
		input := createValidInput(models.QueryTypeAdvocateProfile)

		// Create and immediately cancel context
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		output, err := handler.execute(ctx, input)

		// May or may not error depending on timing, but should handle gracefully
		if err != nil {
			assert.Error(t, err)
		} else {
			assert.NotNil(t, output)
		}
	})

	t.Run("large result set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		// Create mock for 1000 advocates - use the exact query that will be executed
		rows := sqlmock.NewRows([]string{
			"id", "name", "industry", "company_size", "geographic_region",
			"use_cases", "expertise_areas", "availability_score", "status",
		})
		for i := 0; i < 1000; i++ {
			rows.AddRow(
				fmt.Sprintf("advocate-%d", i), fmt.Sprintf("Advocate %d", i),
				"fintech", "201-1000", "emea", `["payments"]`, `[]`, 50, "active",
			)
		}

		// Use the exact query that will be executed for the unscoped pool
		mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status FROM advocates`).
			WillReturnRows(rows)

		handler := NewHandler(createTestConfig(), db, createTestLogger(t))
		input := &Input{
			QueryType: string(models.QueryTypeAdvocatePool),
		}

		output, err := handler.execute(context.Background(), input)

		assert.NoError(t, err)
		assert.NotNil(t, output)
		assert.Equal(t, 1000, output.RowCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// ==========================
// Integration Test
// ==========================

func TestHandler_FullWorkflow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	// Mock opportunity details query
	opportunityRows := sqlmock.NewRows([]string{
		"id", "prospect_industry", "prospect_size", "geographic_region", "use_case",
		"stage", "program_id", "created_at",
	}).AddRow(
		"opp-123", "fintech", "201-1000", "emea", "fraud-detection",
		"Proposal", "program-123", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	)
	mock.ExpectQuery(`SELECT id, prospect_industry, prospect_size, geographic_region, use_case, stage, program_id, created_at FROM opportunities WHERE id = \$1`).
		WithArgs("opp-123").
		WillReturnRows(opportunityRows)

	// Mock advocate pool query for the opportunity's program
	poolRows := sqlmock.NewRows([]string{
		"id", "name", "industry", "company_size", "geographic_region",
		"use_cases", "expertise_areas", "availability_score", "status",
	}).AddRow(
		"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
		`["fraud-detection"]`, `["api-integration"]`, 85, "active",
	).AddRow(
		"advocate-456", "Marcus Obi", "healthcare", "51-200", "na-east",
		`["patient-portal"]`, `[]`, 60, "active",
	)
	mock.ExpectQuery(`SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region, a.use_cases, a.expertise_areas, a.availability_score, a.status FROM advocates a JOIN program_advocates pa ON pa.advocate_id = a.id WHERE pa.program_id = \$1`).
		WithArgs("program-123").
		WillReturnRows(poolRows)

	// Mock engagement history for the leading advocate
	engagementRows := sqlmock.NewRows([]string{
		"id", "advocate_id", "opportunity_id", "engagement_type", "status", "occurred_at",
	}).AddRow(
		"eng-1", "advocate-123", "opp-042", "reference_call", "completed",
		time.Date(2024, 6, 12, 15, 4, 0, 0, time.UTC),
	)
	mock.ExpectQuery(`SELECT id, advocate_id, opportunity_id, engagement_type, status, occurred_at FROM advocate_engagements WHERE advocate_id = \$1 ORDER BY occurred_at DESC LIMIT \$2`).
		WithArgs("advocate-123", 25).
		WillReturnRows(engagementRows)

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))

	// Test opportunity details
	opportunityInput := createValidInput(models.QueryTypeOpportunityDetails)
	opportunityOutput, err := handler.execute(context.Background(), opportunityInput)

	assert.NoError(t, err)
	assert.NotNil(t, opportunityOutput)
	assert.Equal(t, 1, opportunityOutput.RowCount)
	assert.GreaterOrEqual(t, opportunityOutput.QueryExecutionTime, int64(0))

	// Test advocate pool
	poolInput := createValidInput(models.QueryTypeAdvocatePool)
	poolOutput, err := handler.execute(context.Background(), poolInput)

	assert.NoError(t, err)
	assert.NotNil(t, poolOutput)
	assert.Equal(t, 2, poolOutput.RowCount)
	assert.GreaterOrEqual(t, poolOutput.QueryExecutionTime, int64(0))

	// Test engagement history
	engagementInput := createValidInput(models.QueryTypeAdvocateEngagements)
	engagementOutput, err := handler.execute(context.Background(), engagementInput)

	assert.NoError(t, err)
	assert.NotNil(t, engagementOutput)
	assert.Equal(t, 1, engagementOutput.RowCount)
	assert.GreaterOrEqual(t, engagementOutput.QueryExecutionTime, int64(0))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute_AdvocateProfile(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "industry", "company_size", "geographic_region",
		"use_cases", "expertise_areas", "availability_score", "status",
		"contact_email", "contact_phone",
	}).AddRow(
		"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
		`["fraud-detection"]`, `["api-integration"]`, 85, "active",
		"dana@example.com", "+442071234567",
	)
	mock.ExpectQuery(`SELECT id, name, industry, company_size, geographic_region, use_cases, expertise_areas, availability_score, status, contact_email, contact_phone FROM advocates WHERE id = \$1`).
		WithArgs("advocate-123").
		WillReturnRows(rows)

	handler := NewHandler(createTestConfig(), db, createBenchmarkLogger(b))
	input := createValidInput(models.QueryTypeAdvocateProfile)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.execute(context.Background(), input)
	}
}

func BenchmarkHandler_Execute_AdvocatePool(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "industry", "company_size", "geographic_region",
		"use_cases", "expertise_areas", "availability_score", "status",
	}).AddRow(
		"advocate-123", "Dana Whitfield", "fintech", "201-1000", "emea",
		`["fraud-detection"]`, `[]`, 85, "active",
	)
	mock.ExpectQuery(`SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region, a.use_cases, a.expertise_areas, a.availability_score, a.status FROM advocates a JOIN program_advocates pa ON pa.advocate_id = a.id WHERE pa.program_id = \$1`).
		WithArgs("program-123").
		WillReturnRows(rows)

	handler := NewHandler(createTestConfig(), db, createBenchmarkLogger(b))
	input := createValidInput(models.QueryTypeAdvocatePool)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.execute(context.Background(), input)
	}
}

func BenchmarkHandler_Execute_ProgramDetails(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "tier", "monthly_match_limit", "owner_email", "active",
	}).AddRow("program-123", "Enterprise Reference Program", "premium", 50, "owner@example.com", true)
	mock.ExpectQuery(`SELECT id, name, tier, monthly_match_limit, owner_email, active FROM programs WHERE id = \$1`).
		WithArgs("program-123").
		WillReturnRows(rows)

	handler := NewHandler(createTestConfig(), db, createBenchmarkLogger(b))
	input := createValidInput(models.QueryTypeProgramDetails)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.execute(context.Background(), input)
	}
}
