// internal/matching/types.go
package matching

import (
	"fmt"
	"strings"
)

type AdvocateStatus string

const (
	StatusActive      AdvocateStatus = "active"
	StatusInactive    AdvocateStatus = "inactive"
	StatusPending     AdvocateStatus = "pending"
	StatusBlacklisted AdvocateStatus = "blacklisted"
)

// Advocate is a customer reference candidate. Optional attributes are
// pointers; nil (or a blank string) means the advocate gave no value.
type Advocate struct {
	ID                string         `json:"id"`
	Name              string         `json:"name,omitempty"`
	Industry          *string        `json:"industry,omitempty"`
	CompanySize       *string        `json:"companySize,omitempty"`
	GeographicRegion  *string        `json:"geographicRegion,omitempty"`
	UseCases          []string       `json:"useCases,omitempty"`
	ExpertiseAreas    []string       `json:"expertiseAreas,omitempty"`
	AvailabilityScore int            `json:"availabilityScore"`
	Status            AdvocateStatus `json:"status"`
}

// Opportunity is the sales deal a reference call is being arranged for.
// Desired* fields override the corresponding prospect attribute as the
// scoring target whenever they are present.
type Opportunity struct {
	ID                      string   `json:"id,omitempty"`
	ProspectIndustry        *string  `json:"prospectIndustry,omitempty"`
	ProspectSize            *string  `json:"prospectSize,omitempty"`
	GeographicRegion        *string  `json:"geographicRegion,omitempty"`
	UseCase                 *string  `json:"useCase,omitempty"`
	DesiredAdvocateIndustry *string  `json:"desiredAdvocateIndustry,omitempty"`
	DesiredAdvocateSize     *string  `json:"desiredAdvocateSize,omitempty"`
	DesiredAdvocateRegion   *string  `json:"desiredAdvocateRegion,omitempty"`
	DesiredUseCases         []string `json:"desiredUseCases,omitempty"`
	DesiredExpertiseAreas   []string `json:"desiredExpertiseAreas,omitempty"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MatchResult is one scored advocate/opportunity pairing. Reasons hold one
// entry per dimension that contributed a non-zero sub-score, in dimension
// evaluation order.
type MatchResult struct {
	AdvocateID    string     `json:"advocateId"`
	AdvocateName  string     `json:"advocateName,omitempty"`
	OpportunityID string     `json:"opportunityId,omitempty"`
	Score         int        `json:"score"`
	Reasons       []string   `json:"reasons"`
	Confidence    Confidence `json:"confidence"`
}

// MatchingCriteria narrows and truncates a matching run. The zero value is
// not usable directly; callers start from DefaultCriteria or pass nil to the
// engine entry points.
type MatchingCriteria struct {
	MaxResults         int      `json:"maxResults"`
	MinScore           int      `json:"minScore"`
	IncludeInactive    bool     `json:"includeInactive"`
	PreferredRegions   []string `json:"preferredRegions,omitempty"`
	ExcludeAdvocateIDs []string `json:"excludeAdvocateIds,omitempty"`
}

func DefaultCriteria() MatchingCriteria {
	return MatchingCriteria{
		MaxResults: 10,
		MinScore:   30,
	}
}

func (c MatchingCriteria) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: maxResults must be positive, got %d", ErrInvalidCriteria, c.MaxResults)
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("%w: minScore must be between 0 and 100, got %d", ErrInvalidCriteria, c.MinScore)
	}
	return nil
}

// MatchingStats describes one matching run. Average and top score cover the
// kept result set only and are zero when nothing was kept.
type MatchingStats struct {
	TotalAdvocates    int              `json:"totalAdvocates"`
	EligibleAdvocates int              `json:"eligibleAdvocates"`
	MatchesFound      int              `json:"matchesFound"`
	AverageScore      int              `json:"averageScore"`
	TopScore          int              `json:"topScore"`
	Criteria          MatchingCriteria `json:"criteria"`
}

type MatchOutcome struct {
	Matches []MatchResult `json:"matches"`
	Stats   MatchingStats `json:"stats"`
}

type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type MatchInsights struct {
	TierCounts   TierCounts    `json:"tierCounts"`
	AverageScore int           `json:"averageScore"`
	TopReasons   []ReasonCount `json:"topReasons"`
}

// optValue unwraps an optional string attribute. Blank strings count as
// absent because boundary JSON regularly carries "" for unset fields.
func optValue(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return "", false
	}
	return v, true
}

// resolveTarget picks the scoring target for one dimension: the desired
// override when present, the prospect attribute otherwise.
func resolveTarget(override, fallback *string) (string, bool) {
	if v, ok := optValue(override); ok {
		return v, true
	}
	return optValue(fallback)
}
