// internal/workers/infrastructure/select-outreach-template/handler.go
package selectoutreachtemplate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"advocacy-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "select-outreach-template"

	// DefaultTemplateID is handed out when no rule matches the request.
	DefaultTemplateID = "outreach_default"
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "TEMPLATE_SELECTION_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// Ad-hoc email invites carry no review decision; pick by match confidence.
	if input.ReviewDecision == "" && input.Channel == "email" {
		if input.Confidence == "high" {
			return &Output{SelectedTemplateId: "reference_invite_detailed"}, nil
		}
		return &Output{SelectedTemplateId: "reference_invite_brief"}, nil
	}

	decisionRules, ok := h.config.TemplateRules["decision"]
	if !ok {
		return nil, errors.New("missing decision template rules in config")
	}

	if id, ok := decisionRules[input.ReviewDecision+":"+input.AccountTier]; ok {
		return &Output{SelectedTemplateId: id}, nil
	}
	if id, ok := decisionRules[input.ReviewDecision+":fallback"]; ok {
		return &Output{SelectedTemplateId: id}, nil
	}

	h.logger.Debug("no template rule matched, using default", map[string]interface{}{
		"reviewDecision": input.ReviewDecision,
		"accountTier":    input.AccountTier,
	})
	return &Output{SelectedTemplateId: DefaultTemplateID}, nil
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
