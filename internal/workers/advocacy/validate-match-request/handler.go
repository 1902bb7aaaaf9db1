// internal/workers/advocacy/validate-match-request/handler.go
package validatematchrequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-match-request"
)

var (
	ErrMatchRequestInvalid = errors.New("MATCH_REQUEST_INVALID")
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// opportunitySchema describes the shape of the opportunity sub-object.
// Unknown fields are allowed so upstream systems can attach extra data.
var opportunitySchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"id":                      {Type: "string", MinLength: intPtr(1)},
		"prospectIndustry":        {Type: "string"},
		"prospectSize":            {Type: "string"},
		"geographicRegion":        {Type: "string"},
		"useCase":                 {Type: "string"},
		"desiredAdvocateIndustry": {Type: "string"},
		"desiredAdvocateSize":     {Type: "string"},
		"desiredAdvocateRegion":   {Type: "string"},
		"desiredUseCases":         {Type: "array", Items: &validation.Property{Type: "string"}},
		"desiredExpertiseAreas":   {Type: "array", Items: &validation.Property{Type: "string"}},
	},
	Required:             []string{"id"},
	AdditionalProperties: true,
}

var criteriaSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"maxResults":         {Type: "number", Minimum: floatPtr(1)},
		"minScore":           {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(100)},
		"includeInactive":    {Type: "boolean"},
		"preferredRegions":   {Type: "array", Items: &validation.Property{Type: "string"}},
		"excludeAdvocateIds": {Type: "array", Items: &validation.Property{Type: "string"}},
	},
	AdditionalProperties: true,
}

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
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "MATCH_REQUEST_INVALID", err.Error())
		return
	}

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
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	validated := make(map[string]interface{})
	var validationErrors []ValidationError

	if input.MatchRequest == nil {
		return nil, fmt.Errorf("%w: matchRequest is required", ErrMatchRequestInvalid)
	}

	// Opportunity
	if oppRaw, ok := input.MatchRequest["opportunity"]; ok {
		if oppMap, ok := oppRaw.(map[string]interface{}); ok {
			result := validation.ValidateInput(oppMap, opportunitySchema)
			for _, verr := range result.Errors {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "opportunity." + verr.Field,
					Code:    verr.Code,
					Message: verr.Message,
				})
			}

			// A whitespace-only id passes the length check but is still unusable.
			if idRaw, ok := oppMap["id"].(string); ok && strings.TrimSpace(idRaw) == "" {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "opportunity.id",
					Code:    "INVALID_FORMAT",
					Message: "Opportunity id must not be blank",
				})
			}

			if result.Valid {
				validated["opportunity"] = oppMap
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "opportunity",
				Code:    "INVALID_TYPE",
				Message: "Opportunity must be an object",
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "opportunity",
			Code:    "MISSING_REQUIRED",
			Message: "Opportunity is required",
		})
	}

	// Criteria (optional)
	if critRaw, ok := input.MatchRequest["criteria"]; ok {
		if critMap, ok := critRaw.(map[string]interface{}); ok {
			result := validation.ValidateInput(critMap, criteriaSchema)
			for _, verr := range result.Errors {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "criteria." + verr.Field,
					Code:    verr.Code,
					Message: verr.Message,
				})
			}
			if result.Valid {
				validated["criteria"] = critMap
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "criteria",
				Code:    "INVALID_TYPE",
				Message: "Criteria must be an object",
			})
		}
	}

	// Program id (optional)
	if programRaw, ok := input.MatchRequest["programId"]; ok {
		if programStr, ok := programRaw.(string); ok {
			if trimmed := strings.TrimSpace(programStr); trimmed != "" {
				validated["programId"] = trimmed
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "programId",
				Code:    "INVALID_TYPE",
				Message: "Program id must be a string",
			})
		}
	}

	isValid := len(validationErrors) == 0
	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":    isValid,
		"errorCount": len(validationErrors),
	})

	if !isValid {
		return nil, fmt.Errorf("%w: %d validation errors", ErrMatchRequestInvalid, len(validationErrors))
	}

	return &Output{
		IsValid:          true,
		ValidatedRequest: validated,
		ValidationErrors: []ValidationError{},
	}, nil
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
