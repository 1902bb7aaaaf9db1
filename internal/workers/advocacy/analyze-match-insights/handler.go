// internal/workers/advocacy/analyze-match-insights/handler.go
package analyzematchinsights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-match-insights"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// Pool quality labels, from best to worst.
const (
	QualityExcellent = "excellent"
	QualityStrong    = "strong"
	QualityAdequate  = "adequate"
	QualityWeak      = "weak"
	QualityEmpty     = "empty"
)

type Handler struct {
	config *Config
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
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
		h.failJob(client, job, "MATCH_ENGINE_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	insights := h.engine.Insights(input.Matches)
	quality := qualityLabel(insights.TierCounts, len(input.Matches))

	h.logger.Info("insights computed", map[string]interface{}{
		"matchCount":   len(input.Matches),
		"highTier":     insights.TierCounts.High,
		"mediumTier":   insights.TierCounts.Medium,
		"lowTier":      insights.TierCounts.Low,
		"averageScore": insights.AverageScore,
		"poolQuality":  quality,
	})

	return &Output{
		Insights:    insights,
		PoolQuality: quality,
	}, nil
}

func qualityLabel(tiers matching.TierCounts, total int) string {
	switch {
	case total == 0:
		return QualityEmpty
	case tiers.High >= 3:
		return QualityExcellent
	case tiers.High >= 1:
		return QualityStrong
	case tiers.Medium >= 1:
		return QualityAdequate
	default:
		return QualityWeak
	}
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
