package syncopportunity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"advocacy-workers/internal/common/errors"
	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/common/zoho"
	"advocacy-workers/internal/matching"
)

// CRMClient is the slice of the Zoho client this worker needs, kept as an
// interface so tests can swap in a mock.
type CRMClient interface {
	GetDeal(ctx context.Context, dealID string) (*zoho.Deal, error)
	UpdateDeal(ctx context.Context, dealID string, deal *zoho.Deal) error
	CreateContact(ctx context.Context, contact *zoho.Contact) (string, error)
	SearchContacts(ctx context.Context, email string) ([]zoho.Contact, error)
}

type Service struct {
	config *Config
	logger logger.Logger
	crm    CRMClient
}

// Deal stages that no longer accept advocate matching.
var closedStages = map[string]bool{
	"Closed Won":  true,
	"Closed Lost": true,
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	crm := deps.CRM
	if crm == nil && config.ZohoAPIKey != "" && config.ZohoOAuthToken != "" {
		crm = zoho.NewCRMClient(config.ZohoAPIKey, config.ZohoOAuthToken)
	}

	return &Service{
		config: config,
		logger: deps.Logger,
		crm:    crm,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	direction := input.Direction
	if direction == "" {
		direction = DirectionPull
	}

	s.logger.Info("Syncing opportunity with CRM", map[string]interface{}{
		"opportunityId": input.OpportunityID,
		"direction":     direction,
		"programId":     input.ProgramID,
	})

	if s.crm == nil {
		return nil, &errors.StandardError{
			Code:      "CRM_NOT_CONFIGURED",
			Message:   "Zoho CRM client not configured",
			Details:   "Missing API key or OAuth token",
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	if direction == DirectionPush {
		return s.executePush(ctx, input)
	}
	return s.executePull(ctx, input)
}

// executePull fetches the deal, maps it into the matching engine's
// opportunity shape, and flags the deal as being matched.
func (s *Service) executePull(ctx context.Context, input *Input) (*Output, error) {
	deal, err := s.fetchDeal(ctx, input.OpportunityID)
	if err != nil {
		return nil, err
	}

	if closedStages[deal.Stage] {
		return nil, &errors.StandardError{
			Code:      "OPPORTUNITY_CLOSED",
			Message:   "Opportunity is closed in CRM",
			Details:   fmt.Sprintf("deal %s is in stage %q", input.OpportunityID, deal.Stage),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	opportunity := mapDealToOpportunity(deal)

	contactID := s.upsertPrimaryContact(ctx, input.PrimaryContact)

	// Flag the deal so CRM users can see matching has started. The deal
	// itself is the source of truth, so a failed flag is not fatal.
	writeback := &zoho.Deal{
		DealName:    deal.DealName,
		MatchStatus: MatchStatusInProgress,
	}
	if err := s.crm.UpdateDeal(ctx, input.OpportunityID, writeback); err != nil {
		s.logger.Warn("Failed to flag deal as matching in progress", map[string]interface{}{
			"opportunityId": input.OpportunityID,
			"error":         err.Error(),
		})
	}

	s.logger.Info("Opportunity synced from CRM", map[string]interface{}{
		"opportunityId": input.OpportunityID,
		"dealStage":     deal.Stage,
		"contactId":     contactID,
	})

	return &Output{
		Success:     true,
		Message:     "Opportunity synced from CRM",
		Opportunity: opportunity,
		DealStage:   deal.Stage,
		ContactID:   contactID,
		CRMProvider: "zoho",
		SyncedAt:    time.Now(),
	}, nil
}

// executePush writes the match outcome back onto the deal record.
func (s *Service) executePush(ctx context.Context, input *Input) (*Output, error) {
	deal, err := s.fetchDeal(ctx, input.OpportunityID)
	if err != nil {
		return nil, err
	}

	status := input.MatchStatus
	if status == "" {
		if input.TopMatch != nil {
			status = MatchStatusFound
		} else {
			status = MatchStatusNone
		}
	}

	writeback := &zoho.Deal{
		DealName:    deal.DealName,
		MatchStatus: status,
	}
	if input.TopMatch != nil {
		advocate := input.TopMatch.AdvocateName
		if advocate == "" {
			advocate = input.TopMatch.AdvocateID
		}
		writeback.TopMatchAdvocate = advocate
		writeback.TopMatchScore = input.TopMatch.Score
	}

	if err := s.crm.UpdateDeal(ctx, input.OpportunityID, writeback); err != nil {
		return nil, &errors.StandardError{
			Code:      "CRM_API_ERROR",
			Message:   "Failed to update CRM deal",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now(),
		}
	}

	s.logger.Info("Match outcome pushed to CRM", map[string]interface{}{
		"opportunityId": input.OpportunityID,
		"matchStatus":   status,
	})

	return &Output{
		Success:     true,
		Message:     "Match outcome pushed to CRM",
		DealStage:   deal.Stage,
		CRMProvider: "zoho",
		SyncedAt:    time.Now(),
	}, nil
}

func (s *Service) fetchDeal(ctx context.Context, dealID string) (*zoho.Deal, error) {
	deal, err := s.crm.GetDeal(ctx, dealID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, &errors.StandardError{
				Code:      "OPPORTUNITY_NOT_FOUND",
				Message:   "Opportunity does not exist in CRM",
				Details:   fmt.Sprintf("deal %s: %s", dealID, err.Error()),
				Retryable: false,
				Timestamp: time.Now(),
			}
		}
		return nil, &errors.StandardError{
			Code:      "CRM_API_ERROR",
			Message:   "Failed to fetch CRM deal",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now(),
		}
	}
	return deal, nil
}

// upsertPrimaryContact creates the prospect contact unless one with the same
// email already exists. The sync must not fail on contact bookkeeping, so
// every error path degrades to an empty contact id.
func (s *Service) upsertPrimaryContact(ctx context.Context, contact *ContactInfo) string {
	if contact == nil || contact.Email == "" {
		return ""
	}

	if err := s.validateEmail(contact.Email); err != nil {
		s.logger.Warn("Skipping contact upsert for invalid email", map[string]interface{}{
			"email": contact.Email,
			"error": err.Error(),
		})
		return ""
	}

	existing, err := s.crm.SearchContacts(ctx, contact.Email)
	if err != nil {
		s.logger.Warn("Failed to search for existing contact", map[string]interface{}{
			"email": contact.Email,
			"error": err.Error(),
		})
	} else if len(existing) > 0 {
		s.logger.Info("Prospect contact already exists in CRM", map[string]interface{}{
			"email":     contact.Email,
			"contactId": existing[0].ID,
		})
		return existing[0].ID
	}

	contactID, err := s.crm.CreateContact(ctx, &zoho.Contact{
		Email:     contact.Email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Phone:     contact.Phone,
		Source:    "advocacy-matching",
	})
	if err != nil {
		s.logger.Warn("Failed to create prospect contact", map[string]interface{}{
			"email": contact.Email,
			"error": err.Error(),
		})
		return ""
	}

	return contactID
}

func mapDealToOpportunity(deal *zoho.Deal) *matching.Opportunity {
	return &matching.Opportunity{
		ID:               deal.ID,
		ProspectIndustry: optional(deal.ProspectIndustry),
		ProspectSize:     optional(deal.ProspectSize),
		GeographicRegion: optional(deal.Region),
		UseCase:          optional(deal.UseCase),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Service) validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return fmt.Errorf("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}

func (s *Service) TestConnection(ctx context.Context) error {
	s.logger.Info("Testing CRM connection", map[string]interface{}{
		"provider": "zoho",
	})

	if s.crm == nil {
		return fmt.Errorf("zoho CRM client not configured")
	}

	// A lightweight search verifies authentication without touching records
	_, err := s.crm.SearchContacts(ctx, "test@healthcheck.com")
	if err != nil {
		// If error is not authentication-related, connection might still be OK
		if !strings.Contains(err.Error(), "401") && !strings.Contains(err.Error(), "403") {
			return nil
		}
		return fmt.Errorf("zoho CRM authentication failed: %w", err)
	}

	return nil
}
