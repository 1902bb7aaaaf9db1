// internal/workers/infrastructure/validate-match-quota/handler.go
package validatematchquota

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advocacy-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "validate-match-quota"
)

var (
	ErrProgramInactive  = errors.New("PROGRAM_INACTIVE")
	ErrQuotaExceeded    = errors.New("MATCH_QUOTA_EXCEEDED")
	ErrQuotaCheckFailed = errors.New("QUOTA_CHECK_FAILED")
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrQuotaExceeded) {
			errorCode = "MATCH_QUOTA_EXCEEDED"
			retries = 0
		} else if errors.Is(err, ErrProgramInactive) {
			errorCode = "PROGRAM_INACTIVE"
			retries = 0
		} else if errors.Is(err, ErrQuotaCheckFailed) {
			errorCode = "QUOTA_CHECK_FAILED"
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	program, err := h.lookupProgram(ctx, input.ProgramID)
	if err != nil {
		return nil, err
	}

	if !program.Active {
		return nil, ErrProgramInactive
	}

	limit := program.MonthlyMatchLimit
	if limit <= 0 {
		limit = h.config.DefaultMonthlyLimit
	}

	counterKey := "quota:" + input.ProgramID + ":" + time.Now().UTC().Format("2006-01")
	count, err := h.redis.Incr(ctx, counterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuotaCheckFailed, err)
	}
	if count == 1 {
		// First request of the month starts the counter's clock.
		h.redis.Expire(ctx, counterKey, h.config.CounterTTL)
	}

	if program.Tier != "premium" && count > int64(limit) {
		return nil, fmt.Errorf("%w: program %s used %d of %d", ErrQuotaExceeded, input.ProgramID, count, limit)
	}

	return &Output{
		QuotaOK:       true,
		AccountTier:   program.Tier,
		MonthlyLimit:  limit,
		UsedThisMonth: count,
	}, nil
}

func (h *Handler) lookupProgram(ctx context.Context, programID string) (*Program, error) {
	cacheKey := "program:" + programID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var cached Program
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return &cached, nil
		}
	}

	var program Program
	var ownerEmail sql.NullString
	query := `SELECT id, name, tier, monthly_match_limit, owner_email, active FROM programs WHERE id = $1`
	err := h.db.QueryRowContext(ctx, query, programID).Scan(
		&program.ID, &program.Name, &program.Tier, &program.MonthlyMatchLimit, &ownerEmail, &program.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgramInactive
		}
		return nil, fmt.Errorf("%w: %v", ErrQuotaCheckFailed, err)
	}
	program.OwnerEmail = ownerEmail.String

	data, _ := json.Marshal(program)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &program, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
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
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
