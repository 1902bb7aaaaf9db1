// internal/workers/advocacy/score-advocate-pair/handler.go
package scoreadvocatepair

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "score-advocate-pair"
)

var (
	ErrAdvocateNotFound = errors.New("ADVOCATE_NOT_FOUND")
	ErrScoreFailed      = errors.New("MATCH_ENGINE_FAILED")
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "MATCH_ENGINE_FAILED"
		if errors.Is(err, ErrAdvocateNotFound) {
			code = "ADVOCATE_NOT_FOUND"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var advocate *matching.Advocate
	if input.Advocate != nil {
		advocate = input.Advocate
	} else if input.AdvocateID != "" {
		var err error
		advocate, err = h.getAdvocate(ctx, input.AdvocateID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: advocate %s", ErrAdvocateNotFound, input.AdvocateID)
			}
			return nil, fmt.Errorf("%w: load advocate %s: %v", ErrScoreFailed, input.AdvocateID, err)
		}
	}

	if advocate == nil {
		return nil, fmt.Errorf("%w: advocate or advocateId is required", ErrScoreFailed)
	}

	result, err := h.engine.Score(*advocate, input.Opportunity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoreFailed, err)
	}

	h.logger.Info("advocate scored", map[string]interface{}{
		"advocateId":    result.AdvocateID,
		"opportunityId": result.OpportunityID,
		"score":         result.Score,
		"confidence":    result.Confidence,
	})

	return &Output{
		Match:      result,
		MatchScore: result.Score,
		Confidence: result.Confidence,
	}, nil
}

func (h *Handler) getAdvocate(ctx context.Context, advocateID string) (*matching.Advocate, error) {
	cacheKey := "advocate:profile:" + advocateID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var advocate matching.Advocate
		if err := json.Unmarshal([]byte(val), &advocate); err == nil {
			return &advocate, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT name, industry, company_size, geographic_region, use_cases, expertise_areas,
		       availability_score, status
		FROM advocates WHERE id = $1`, advocateID)

	advocate := matching.Advocate{ID: advocateID}
	var industry, companySize, region sql.NullString
	var useCases, expertiseAreas []byte
	var status string
	err := row.Scan(&advocate.Name, &industry, &companySize, &region,
		&useCases, &expertiseAreas, &advocate.AvailabilityScore, &status)
	if err != nil {
		return nil, err
	}

	if industry.Valid {
		advocate.Industry = &industry.String
	}
	if companySize.Valid {
		advocate.CompanySize = &companySize.String
	}
	if region.Valid {
		advocate.GeographicRegion = &region.String
	}
	if err := json.Unmarshal(useCases, &advocate.UseCases); err != nil {
		advocate.UseCases = []string{}
	}
	if err := json.Unmarshal(expertiseAreas, &advocate.ExpertiseAreas); err != nil {
		advocate.ExpertiseAreas = []string{}
	}
	advocate.Status = matching.AdvocateStatus(status)

	data, _ := json.Marshal(advocate)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &advocate, nil
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
