// internal/workers/advocacy/route-match-review/handler.go
package routematchreview

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"
	"advocacy-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "route-match-review"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "MATCH_ENGINE_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	accountType := models.AccountTypeStandard
	if input.ProgramID != "" {
		fetched, err := h.getProgramAccountType(ctx, input.ProgramID)
		if err != nil {
			h.logger.Warn("failed to fetch program account type, defaulting to standard", map[string]interface{}{
				"programId": input.ProgramID,
				"error":     err,
			})
		} else {
			accountType = fetched
		}
	}

	isPremium := accountType == models.AccountTypePremium
	decision := h.determineDecision(input)
	priority := PriorityNormal
	if isPremium && decision != DecisionNoMatch {
		priority = PriorityExpedited
	}

	h.logger.Info("review routing determined", map[string]interface{}{
		"programId":   input.ProgramID,
		"accountType": accountType,
		"decision":    decision,
		"priority":    priority,
	})

	return &Output{
		Decision:         decision,
		ReviewPriority:   priority,
		IsPremiumProgram: isPremium,
	}, nil
}

// determineDecision maps the top match's confidence tier to a workflow path.
// High confidence goes straight to outreach; anything kept but weaker gets a
// human reviewer.
func (h *Handler) determineDecision(input *Input) string {
	if input.TopMatch == nil || !input.HasMatches {
		return DecisionNoMatch
	}
	if input.TopMatch.Confidence == matching.ConfidenceHigh {
		return DecisionAutoOutreach
	}
	return DecisionManualReview
}

func (h *Handler) getProgramAccountType(ctx context.Context, programID string) (string, error) {
	cacheKey := "program:account:" + programID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		return val, nil
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT tier
		FROM programs
		WHERE id = $1`, programID)

	var accountType string
	err := row.Scan(&accountType)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("program not found: %s", programID)
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	switch accountType {
	case models.AccountTypePremium, models.AccountTypeStandard:
	default:
		accountType = models.AccountTypeStandard
	}

	h.redis.Set(ctx, cacheKey, accountType, h.config.CacheTTL)
	return accountType, nil
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
