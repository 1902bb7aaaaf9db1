// internal/matching/engine.go

// Package matching recommends customer advocates for sales opportunities.
// The engine is a pure function of its inputs: it performs no I/O, keeps no
// state between calls, and produces deterministic, explainable results.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrInvalidConfig   = errors.New("invalid matching config")
	ErrInvalidCriteria = errors.New("invalid matching criteria")
	ErrMissingIdentity = errors.New("missing identity")
)

// Engine scores and ranks advocates against opportunities using an immutable
// configuration fixed at construction time.
type Engine struct {
	cfg       Config
	sizeIndex map[string]int
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizeIndex := make(map[string]int, len(cfg.SizeBuckets))
	for i, bucket := range cfg.SizeBuckets {
		sizeIndex[strings.ToLower(strings.TrimSpace(bucket))] = i
	}
	return &Engine{cfg: cfg, sizeIndex: sizeIndex}, nil
}

// Score evaluates one advocate against one opportunity. Missing optional
// data never fails; only an advocate without an id does.
func (e *Engine) Score(adv Advocate, opp Opportunity) (MatchResult, error) {
	if strings.TrimSpace(adv.ID) == "" {
		return MatchResult{}, fmt.Errorf("%w: advocate has no id (name %q)", ErrMissingIdentity, adv.Name)
	}

	dims := []dimensionScore{
		e.scoreIndustry(adv, opp),
		e.scoreCompanySize(adv, opp),
		e.scoreUseCases(adv, opp),
		e.scoreExpertise(adv, opp),
		e.scoreRegion(adv, opp),
		e.scoreAvailability(adv),
	}
	weights := []int{
		e.cfg.Weights.Industry,
		e.cfg.Weights.CompanySize,
		e.cfg.Weights.UseCases,
		e.cfg.Weights.Expertise,
		e.cfg.Weights.Region,
		e.cfg.Weights.Availability,
	}

	total := 0.0
	reasons := make([]string, 0, len(dims))
	for i, dim := range dims {
		total += float64(dim.score) / 100 * float64(weights[i])
		if dim.score > 0 {
			reasons = append(reasons, dim.reason)
		}
	}
	score := int(math.Round(total))

	return MatchResult{
		AdvocateID:    adv.ID,
		AdvocateName:  adv.Name,
		OpportunityID: opp.ID,
		Score:         score,
		Reasons:       reasons,
		Confidence:    classifyConfidence(score),
	}, nil
}

// Match runs one full recommendation pass: eligibility filter, scoring,
// minimum-score cut, ranking, truncation, statistics. A nil criteria means
// DefaultCriteria.
func (e *Engine) Match(candidates []Advocate, opp Opportunity, criteria *MatchingCriteria) (*MatchOutcome, error) {
	crit, err := effectiveCriteria(criteria)
	if err != nil {
		return nil, err
	}

	eligible := filterEligible(candidates, crit)

	matches := make([]MatchResult, 0, len(eligible))
	for _, adv := range eligible {
		result, err := e.Score(adv, opp)
		if err != nil {
			return nil, err
		}
		if result.Score < crit.MinScore {
			continue
		}
		matches = append(matches, result)
	}

	sortMatches(matches)
	if len(matches) > crit.MaxResults {
		matches = matches[:crit.MaxResults]
	}

	return &MatchOutcome{
		Matches: matches,
		Stats:   buildStats(len(candidates), len(eligible), matches, crit),
	}, nil
}

// BatchMatch runs Match per opportunity against the same pool and criteria,
// tags results with their opportunity id, and globally re-ranks the merged
// list. Combined pool figures are taken from the first opportunity's run;
// eligibility does not depend on the opportunity, so they are identical
// across the batch.
func (e *Engine) BatchMatch(candidates []Advocate, opportunities []Opportunity, criteria *MatchingCriteria) (*MatchOutcome, error) {
	crit, err := effectiveCriteria(criteria)
	if err != nil {
		return nil, err
	}

	combined := &MatchOutcome{
		Matches: []MatchResult{},
		Stats:   MatchingStats{Criteria: crit},
	}
	for i, opp := range opportunities {
		if strings.TrimSpace(opp.ID) == "" {
			return nil, fmt.Errorf("%w: opportunity at index %d has no id", ErrMissingIdentity, i)
		}
		outcome, err := e.Match(candidates, opp, &crit)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			combined.Stats.TotalAdvocates = outcome.Stats.TotalAdvocates
			combined.Stats.EligibleAdvocates = outcome.Stats.EligibleAdvocates
		}
		combined.Matches = append(combined.Matches, outcome.Matches...)
	}

	sortMatches(combined.Matches)
	combined.Stats.MatchesFound = len(combined.Matches)
	combined.Stats.AverageScore = averageScore(combined.Matches)
	combined.Stats.TopScore = topScore(combined.Matches)
	return combined, nil
}

func effectiveCriteria(criteria *MatchingCriteria) (MatchingCriteria, error) {
	if criteria == nil {
		return DefaultCriteria(), nil
	}
	if err := criteria.Validate(); err != nil {
		return MatchingCriteria{}, err
	}
	return *criteria, nil
}

func classifyConfidence(score int) Confidence {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// sortMatches orders by score descending with advocate id and opportunity id
// as secondary keys, so equal scores always rank reproducibly.
func sortMatches(matches []MatchResult) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].AdvocateID != matches[j].AdvocateID {
			return matches[i].AdvocateID < matches[j].AdvocateID
		}
		return matches[i].OpportunityID < matches[j].OpportunityID
	})
}

func buildStats(total, eligible int, kept []MatchResult, crit MatchingCriteria) MatchingStats {
	return MatchingStats{
		TotalAdvocates:    total,
		EligibleAdvocates: eligible,
		MatchesFound:      len(kept),
		AverageScore:      averageScore(kept),
		TopScore:          topScore(kept),
		Criteria:          crit,
	}
}

func averageScore(matches []MatchResult) int {
	if len(matches) == 0 {
		return 0
	}
	sum := 0
	for _, m := range matches {
		sum += m.Score
	}
	return int(math.Round(float64(sum) / float64(len(matches))))
}

func topScore(matches []MatchResult) int {
	top := 0
	for _, m := range matches {
		if m.Score > top {
			top = m.Score
		}
	}
	return top
}
