// internal/workers/advocacy/record-match-run/handler.go
package recordmatchrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-match-run"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateMatchRun    = errors.New("DUPLICATE_MATCH_RUN")
)

type Handler struct {
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		db:     db,
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
		errorCode := "DATABASE_INSERT_FAILED"
		if errors.Is(err, ErrDuplicateMatchRun) {
			errorCode = "DUPLICATE_MATCH_RUN"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RequestID != "" {
		var exists bool
		err := h.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM match_runs
				WHERE request_id = $1
			)`, input.RequestID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
		}
		if exists {
			return nil, fmt.Errorf("%w: match run already recorded for request %s",
				ErrDuplicateMatchRun, input.RequestID)
		}
	}

	run := models.MatchRun{
		ID:                uuid.New().String(),
		RequestID:         input.RequestID,
		OpportunityID:     input.OpportunityID,
		ProgramID:         input.ProgramID,
		RequestedBy:       input.RequestedBy,
		TotalAdvocates:    input.Stats.TotalAdvocates,
		EligibleAdvocates: input.Stats.EligibleAdvocates,
		MatchesFound:      input.Stats.MatchesFound,
		TopScore:          input.Stats.TopScore,
		AverageScore:      input.Stats.AverageScore,
		Status:            "no_match",
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if input.Stats.MatchesFound > 0 {
		run.Status = "completed"
	}
	if input.TopMatch != nil {
		run.TopAdvocateID = input.TopMatch.AdvocateID
	}

	criteriaJSON, err := json.Marshal(input.Stats.Criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal criteria: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO match_runs (
			id, request_id, opportunity_id, program_id, requested_by,
			total_advocates, eligible_advocates, matches_found,
			top_score, average_score, top_advocate_id, criteria, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		run.ID,
		run.RequestID,
		run.OpportunityID,
		run.ProgramID,
		run.RequestedBy,
		run.TotalAdvocates,
		run.EligibleAdvocates,
		run.MatchesFound,
		run.TopScore,
		run.AverageScore,
		run.TopAdvocateID,
		criteriaJSON,
		run.Status,
		run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit trail insert is non-critical; a failure is logged, not raised.
	auditJSON, err := json.Marshal(map[string]interface{}{
		"opportunityId": run.OpportunityID,
		"programId":     run.ProgramID,
		"matchesFound":  run.MatchesFound,
		"topScore":      run.TopScore,
		"status":        run.Status,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"match_run_recorded",
		"match_run",
		run.ID,
		auditJSON,
		run.CreatedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"matchRunId": run.ID,
		})
	}

	h.logger.Info("match run recorded", map[string]interface{}{
		"matchRunId":    run.ID,
		"opportunityId": run.OpportunityID,
		"programId":     run.ProgramID,
		"matchesFound":  run.MatchesFound,
		"status":        run.Status,
	})

	return &Output{
		MatchRunID: run.ID,
		RunStatus:  run.Status,
		CreatedAt:  run.CreatedAt,
	}, nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
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
