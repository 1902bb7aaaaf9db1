// internal/workers/advocacy/batch-advocate-matches/handler.go
package batchadvocatematches

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/common/metrics"
	"advocacy-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "batch-advocate-matches"

	runMode = "batch"
)

var (
	ErrBatchRequestInvalid = errors.New("MATCH_REQUEST_INVALID")
	ErrMatchRunFailed      = errors.New("MATCH_ENGINE_FAILED")
)

type Handler struct {
	config *Config
	engine *matching.Engine
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "MATCH_ENGINE_FAILED"
		switch {
		case errors.Is(err, matching.ErrInvalidCriteria):
			code = "MATCH_CRITERIA_INVALID"
		case errors.Is(err, ErrBatchRequestInvalid), errors.Is(err, matching.ErrMissingIdentity):
			code = "MATCH_REQUEST_INVALID"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Opportunities) == 0 {
		return nil, fmt.Errorf("%w: at least one opportunity is required", ErrBatchRequestInvalid)
	}

	start := time.Now()

	pool := input.Candidates
	if len(pool) == 0 {
		var err error
		pool, err = h.getAdvocatePool(ctx, input.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("%w: load advocate pool: %v", ErrMatchRunFailed, err)
		}
	}

	outcome, err := h.engine.BatchMatch(pool, input.Opportunities, input.Criteria)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidCriteria) || errors.Is(err, matching.ErrMissingIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchRunFailed, err)
	}

	metrics.MatchRunsTotal.WithLabelValues(runMode).Inc()
	metrics.MatchResultsReturned.WithLabelValues(runMode).Add(float64(len(outcome.Matches)))
	for _, m := range outcome.Matches {
		metrics.MatchScoreDistribution.WithLabelValues(runMode).Observe(float64(m.Score))
	}

	// The merged list is globally ranked, so the first result seen for an
	// opportunity is that opportunity's best.
	topMatches := make(map[string]matching.MatchResult)
	for _, m := range outcome.Matches {
		if _, seen := topMatches[m.OpportunityID]; !seen {
			topMatches[m.OpportunityID] = m
		}
	}

	duration := time.Since(start)
	h.logger.Info("batch matching run completed", map[string]interface{}{
		"opportunityCount":  len(input.Opportunities),
		"totalAdvocates":    outcome.Stats.TotalAdvocates,
		"eligibleAdvocates": outcome.Stats.EligibleAdvocates,
		"matchesFound":      outcome.Stats.MatchesFound,
		"topScore":          outcome.Stats.TopScore,
		"durationMs":        duration.Milliseconds(),
	})
	if duration > h.config.SlowRunThreshold {
		h.logger.Warn("batch matching run exceeded threshold", map[string]interface{}{
			"opportunityCount": len(input.Opportunities),
			"durationMs":       duration.Milliseconds(),
			"thresholdMs":      h.config.SlowRunThreshold.Milliseconds(),
		})
	}

	output := &Output{
		Matches:    outcome.Matches,
		Stats:      outcome.Stats,
		HasMatches: len(outcome.Matches) > 0,
	}
	if len(topMatches) > 0 {
		output.TopMatches = topMatches
	}
	return output, nil
}

func (h *Handler) getAdvocatePool(ctx context.Context, programID string) ([]matching.Advocate, error) {
	cacheKey := "advocate:pool"
	if programID != "" {
		cacheKey = "advocate:pool:" + programID
	}
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var pool []matching.Advocate
		if err := json.Unmarshal([]byte(val), &pool); err == nil {
			return pool, nil
		}
	}

	var rows *sql.Rows
	var err error
	if programID != "" {
		rows, err = h.db.QueryContext(ctx, `
			SELECT a.id, a.name, a.industry, a.company_size, a.geographic_region,
			       a.use_cases, a.expertise_areas, a.availability_score, a.status
			FROM advocates a
			JOIN program_advocates pa ON pa.advocate_id = a.id
			WHERE pa.program_id = $1`, programID)
	} else {
		rows, err = h.db.QueryContext(ctx, `
			SELECT id, name, industry, company_size, geographic_region,
			       use_cases, expertise_areas, availability_score, status
			FROM advocates`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]matching.Advocate, 0)
	for rows.Next() {
		var adv matching.Advocate
		var industry, companySize, region sql.NullString
		var useCases, expertiseAreas []byte
		var status string
		if err := rows.Scan(&adv.ID, &adv.Name, &industry, &companySize, &region,
			&useCases, &expertiseAreas, &adv.AvailabilityScore, &status); err != nil {
			return nil, err
		}
		if industry.Valid {
			adv.Industry = &industry.String
		}
		if companySize.Valid {
			adv.CompanySize = &companySize.String
		}
		if region.Valid {
			adv.GeographicRegion = &region.String
		}
		if err := json.Unmarshal(useCases, &adv.UseCases); err != nil {
			adv.UseCases = []string{}
		}
		if err := json.Unmarshal(expertiseAreas, &adv.ExpertiseAreas); err != nil {
			adv.ExpertiseAreas = []string{}
		}
		adv.Status = matching.AdvocateStatus(status)
		pool = append(pool, adv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	data, _ := json.Marshal(pool)
	h.redis.Set(ctx, cacheKey, data, h.config.PoolCacheTTL)

	return pool, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
