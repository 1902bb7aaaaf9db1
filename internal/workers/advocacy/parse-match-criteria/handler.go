// internal/workers/advocacy/parse-match-criteria/handler.go
package parsematchcriteria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-match-criteria"

var (
	ErrInvalidCriteriaFormat = errors.New("MATCH_CRITERIA_INVALID")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "MATCH_CRITERIA_INVALID", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.RawCriteria == nil {
		input.RawCriteria = make(map[string]interface{})
	}

	// Absent fields keep their defaults; present fields must be valid.
	criteria := matching.DefaultCriteria()

	if maxRaw, ok := input.RawCriteria["maxResults"]; ok {
		max, err := h.parseInt(maxRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: maxResults: %v", ErrInvalidCriteriaFormat, err)
		}
		if max < 1 {
			return nil, fmt.Errorf("%w: maxResults must be at least 1, got %d", ErrInvalidCriteriaFormat, max)
		}
		criteria.MaxResults = max
	}

	if minRaw, ok := input.RawCriteria["minScore"]; ok {
		min, err := h.parseInt(minRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: minScore: %v", ErrInvalidCriteriaFormat, err)
		}
		if min < 0 || min > 100 {
			return nil, fmt.Errorf("%w: minScore must be between 0 and 100, got %d", ErrInvalidCriteriaFormat, min)
		}
		criteria.MinScore = min
	}

	if inactiveRaw, ok := input.RawCriteria["includeInactive"]; ok {
		b, ok := inactiveRaw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: includeInactive must be a boolean", ErrInvalidCriteriaFormat)
		}
		criteria.IncludeInactive = b
	}

	if regionsRaw, ok := input.RawCriteria["preferredRegions"]; ok {
		criteria.PreferredRegions = h.parseStringArray(regionsRaw)
	}

	if excludeRaw, ok := input.RawCriteria["excludeAdvocateIds"]; ok {
		criteria.ExcludeAdvocateIDs = h.parseStringArray(excludeRaw)
	}

	h.logger.Info("criteria parsed successfully", map[string]interface{}{
		"maxResults":         criteria.MaxResults,
		"minScore":           criteria.MinScore,
		"includeInactive":    criteria.IncludeInactive,
		"preferredRegions":   criteria.PreferredRegions,
		"excludeAdvocateIds": criteria.ExcludeAdvocateIDs,
	})

	return &Output{Criteria: criteria}, nil
}

func (h *Handler) parseStringArray(raw interface{}) []string {
	// Always return non-nil slice
	result := []string{}

	if raw == nil {
		return result
	}

	seen := make(map[string]bool) // For deduplication

	switch v := raw.(type) {
	case string:
		if v != "" {
			parts := strings.Split(v, ",")
			for _, s := range parts {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" && !seen[trimmed] {
					result = append(result, trimmed)
					seen[trimmed] = true
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" && !seen[trimmed] {
					result = append(result, trimmed)
					seen[trimmed] = true
				}
			}
		}
	case []string:
		for _, s := range v {
			trimmed := strings.TrimSpace(s)
			if trimmed != "" && !seen[trimmed] {
				result = append(result, trimmed)
				seen[trimmed] = true
			}
		}
	}

	return result
}

func (h *Handler) parseInt(raw interface{}) (int, error) {
	if raw == nil {
		return 0, errors.New("cannot parse nil as integer")
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, errors.New("not a whole number")
		}
		return int(v), nil

	case int:
		return v, nil

	case int64:
		return int(v), nil

	case string:
		num, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.New("not a number")
		}
		return num, nil

	default:
		return 0, errors.New("not a number")
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
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
