// internal/workers/advocacy/notify-top-match/handler.go
package notifytopmatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonaws "advocacy-workers/internal/common/aws"
	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-top-match"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// defaultTemplates maps a notification type to the template used when the
// workflow did not pick one explicitly.
var defaultTemplates = map[string]string{
	TypeTopMatchFound:   TemplateTopMatchStandard,
	TypeReviewRequested: TemplateReviewStandard,
}

type Handler struct {
	config      *Config
	db          *sql.DB
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]models.NotificationTemplate
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	templateData, err := loadTemplates(config.TemplateRegistry)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	sesClient, snsClient, err := commonaws.NewMessagingClients(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:      config,
		db:          db,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   sesClient,
		snsClient:   snsClient,
		templateMap: templateData,
	}, nil
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
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email, phone, err := h.getRecipientContact(ctx, input.RecipientID, input.RecipientType)
	if err != nil {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
			"type":        input.RecipientType,
		})
		return &Output{
			OutreachID: uuid.New().String(),
			Status:     StatusDisabled,
			Channels:   map[string]string{"email": ChannelSkipped, "sms": ChannelSkipped},
			SentAt:     time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	templateID := input.TemplateID
	if templateID == "" {
		templateID = defaultTemplates[input.NotificationType]
	}
	template, exists := h.templateMap[templateID]
	if !exists {
		return nil, fmt.Errorf("%w: no template registered for %q", ErrNotificationSendFailed, templateID)
	}
	if input.NotificationType != "" && template.Type != input.NotificationType {
		return nil, fmt.Errorf("%w: template %q does not apply to %q notifications",
			ErrNotificationSendFailed, templateID, input.NotificationType)
	}

	// Build data map for template rendering
	data := map[string]interface{}{
		"recipientId":   input.RecipientID,
		"opportunityId": input.OpportunityID,
		"matchRunId":    input.MatchRunID,
	}
	if input.TopMatch != nil {
		data["advocateId"] = input.TopMatch.AdvocateID
		data["matchScore"] = input.TopMatch.Score
		data["confidence"] = string(input.TopMatch.Confidence)
	}

	// Merge metadata if present
	if input.Metadata != nil {
		for k, v := range input.Metadata {
			data[k] = v
		}
	}

	subject := renderTemplate(template.Subject, data)
	body := renderTemplate(template.Body, data)
	htmlBody := body
	if template.HTMLBody != "" {
		htmlBody = renderTemplate(template.HTMLBody, data)
	}

	sentAt := time.Now().UTC().Format(time.RFC3339)
	outreachID := uuid.New().String()
	channels := map[string]string{"email": ChannelSkipped, "sms": ChannelSkipped}

	emailSent := false
	smsSent := false

	// Send email if enabled and email exists
	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body, htmlBody); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			channels["email"] = ChannelFailed
			return &Output{OutreachID: outreachID, Status: StatusFailed, Channels: channels, SentAt: sentAt}, nil
		}
		channels["email"] = ChannelSent
		emailSent = true
	}

	// Send SMS only if: enabled AND phone exists AND the review is expedited
	if h.config.SMSEnabled && phone != "" && input.ReviewPriority == "expedited" {
		if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			channels["sms"] = ChannelFailed
			return &Output{OutreachID: outreachID, Status: StatusFailed, Channels: channels, SentAt: sentAt}, nil
		}
		channels["sms"] = ChannelSent
		smsSent = true
	}

	// Determine status based on what was sent
	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	if status == StatusSent {
		// Delivery already happened; bookkeeping failures must not fail the job.
		h.recordOutreach(ctx, input, outreachID, templateID, channels, sentAt)
	}

	return &Output{
		OutreachID: outreachID,
		Status:     status,
		Channels:   channels,
		SentAt:     sentAt,
	}, nil
}

func (h *Handler) getRecipientContact(ctx context.Context, recipientID, recipientType string) (string, string, error) {
	var email string
	var phone sql.NullString
	var query string

	switch recipientType {
	case RecipientTypeAdvocate:
		query = `SELECT contact_email, contact_phone FROM advocates WHERE id = $1`
	case RecipientTypeAccountTeam:
		query = `SELECT email, phone FROM account_team_members WHERE id = $1`
	default:
		return "", "", fmt.Errorf("invalid recipient type: %s", recipientType)
	}

	err := h.db.QueryRowContext(ctx, query, recipientID).Scan(&email, &phone)
	return email, phone.String, err
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body, htmlBody string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) recordOutreach(ctx context.Context, input *Input, outreachID, templateID string, channels map[string]string, sentAt string) {
	advocateID := ""
	if input.TopMatch != nil {
		advocateID = input.TopMatch.AdvocateID
	}

	// The primary channel is the first one that actually delivered.
	channel := "email"
	if channels["email"] != ChannelSent {
		channel = "sms"
	}

	record := models.OutreachRequest{
		ID:            outreachID,
		MatchRunID:    input.MatchRunID,
		AdvocateID:    advocateID,
		OpportunityID: input.OpportunityID,
		TemplateID:    templateID,
		Channel:       channel,
		Status:        StatusSent,
		CreatedAt:     sentAt,
	}

	query := `
		INSERT INTO outreach_requests (id, match_run_id, advocate_id, opportunity_id, template_id, channel, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := h.db.ExecContext(ctx, query,
		record.ID, record.MatchRunID, record.AdvocateID, record.OpportunityID,
		record.TemplateID, record.Channel, record.Status, record.CreatedAt,
	); err != nil {
		h.logger.Warn("failed to record outreach request", map[string]interface{}{
			"error":      err.Error(),
			"outreachId": record.ID,
		})
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

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	// First, replace all known placeholders
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func loadTemplates(_ string) (map[string]models.NotificationTemplate, error) {
	templates := []models.NotificationTemplate{
		{
			ID:      TemplateTopMatchStandard,
			Type:    TypeTopMatchFound,
			Subject: "New Advocate Match for {{opportunityId}}",
			Body:    "Advocate {{advocateId}} scored {{matchScore}} for opportunity {{opportunityId}}. Confidence: {{confidence}}.",
		},
		{
			ID:       TemplateTopMatchPremium,
			Type:     TypeTopMatchFound,
			Subject:  "Priority Advocate Match for {{opportunityId}}",
			Body:     "A premium program match is ready. Advocate {{advocateId}} scored {{matchScore}} for opportunity {{opportunityId}}. Please schedule the reference call today.",
			HTMLBody: "<p>A premium program match is ready.</p><p>Advocate <strong>{{advocateId}}</strong> scored <strong>{{matchScore}}</strong> for opportunity {{opportunityId}}.</p><p>Please schedule the reference call today.</p>",
		},
		{
			ID:      TemplateReviewStandard,
			Type:    TypeReviewRequested,
			Subject: "Advocate Match Awaiting Review",
			Body:    "A match for opportunity {{opportunityId}} needs a reviewer. Top score: {{matchScore}}.",
		},
	}

	byID := make(map[string]models.NotificationTemplate, len(templates))
	for _, tmpl := range templates {
		byID[tmpl.ID] = tmpl
	}
	return byID, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
