// internal/matching/dimensions.go
package matching

import (
	"fmt"
	"math"
	"strings"
)

type dimensionScore struct {
	score  int
	reason string
}

func (e *Engine) scoreIndustry(adv Advocate, opp Opportunity) dimensionScore {
	value, ok := optValue(adv.Industry)
	if !ok {
		return dimensionScore{0, "no advocate industry on file"}
	}
	target, ok := resolveTarget(opp.DesiredAdvocateIndustry, opp.ProspectIndustry)
	if !ok {
		return dimensionScore{50, "no target industry specified, neutral score"}
	}

	switch {
	case strings.EqualFold(value, target):
		return dimensionScore{100, fmt.Sprintf("exact industry match (%s)", value)}
	case containsFold(value, target):
		return dimensionScore{75, fmt.Sprintf("partial industry match (%s ~ %s)", value, target)}
	case sameCluster(e.cfg.IndustrySynonyms, value, target):
		return dimensionScore{60, fmt.Sprintf("related industry (%s ~ %s)", value, target)}
	}
	return dimensionScore{0, "no industry affinity"}
}

func (e *Engine) scoreCompanySize(adv Advocate, opp Opportunity) dimensionScore {
	value, ok := optValue(adv.CompanySize)
	if !ok {
		return dimensionScore{0, "no advocate company size on file"}
	}
	advIdx, known := e.sizeIndex[strings.ToLower(value)]
	if !known {
		return dimensionScore{0, fmt.Sprintf("unrecognized advocate company size (%s)", value)}
	}
	target, ok := resolveTarget(opp.DesiredAdvocateSize, opp.ProspectSize)
	if !ok {
		return dimensionScore{50, "no target company size specified, neutral score"}
	}
	targetIdx, known := e.sizeIndex[strings.ToLower(target)]
	if !known {
		// A target outside the hierarchy cannot be positioned, so the
		// dimension falls back to the neutral path.
		return dimensionScore{50, fmt.Sprintf("unrecognized target company size (%s), neutral score", target)}
	}

	distance := advIdx - targetIdx
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		return dimensionScore{100, fmt.Sprintf("exact company size match (%s)", value)}
	case 1:
		return dimensionScore{80, fmt.Sprintf("adjacent company size (%s vs %s)", value, target)}
	case 2:
		return dimensionScore{60, fmt.Sprintf("close company size (%s vs %s)", value, target)}
	case 3:
		return dimensionScore{40, fmt.Sprintf("distant company size (%s vs %s)", value, target)}
	}
	return dimensionScore{20, fmt.Sprintf("far company size (%s vs %s)", value, target)}
}

func (e *Engine) scoreUseCases(adv Advocate, opp Opportunity) dimensionScore {
	if len(adv.UseCases) == 0 {
		return dimensionScore{0, "no advocate use cases on file"}
	}
	targets := opp.DesiredUseCases
	if len(targets) == 0 {
		if single, ok := optValue(opp.UseCase); ok {
			targets = []string{single}
		}
	}
	if len(targets) == 0 {
		return dimensionScore{50, "no target use cases specified, neutral score"}
	}

	matched := overlapCount(targets, adv.UseCases)
	if matched == 0 {
		return dimensionScore{0, "no use case overlap"}
	}
	score := int(math.Round(float64(matched) / float64(len(targets)) * 100))
	return dimensionScore{score, fmt.Sprintf("use case overlap: %d of %d desired", matched, len(targets))}
}

func (e *Engine) scoreExpertise(adv Advocate, opp Opportunity) dimensionScore {
	if len(adv.ExpertiseAreas) == 0 {
		return dimensionScore{0, "no advocate expertise on file"}
	}
	targets := opp.DesiredExpertiseAreas
	if len(targets) == 0 {
		return dimensionScore{50, "no desired expertise specified, neutral score"}
	}

	matched := overlapCount(targets, adv.ExpertiseAreas)
	if matched == 0 {
		return dimensionScore{0, "no expertise overlap"}
	}
	score := int(math.Round(float64(matched) / float64(len(targets)) * 100))
	return dimensionScore{score, fmt.Sprintf("expertise overlap: %d of %d desired", matched, len(targets))}
}

func (e *Engine) scoreRegion(adv Advocate, opp Opportunity) dimensionScore {
	value, ok := optValue(adv.GeographicRegion)
	if !ok {
		return dimensionScore{0, "no advocate region on file"}
	}
	target, ok := resolveTarget(opp.DesiredAdvocateRegion, opp.GeographicRegion)
	if !ok {
		return dimensionScore{50, "no target region specified, neutral score"}
	}

	switch {
	case strings.EqualFold(value, target):
		return dimensionScore{100, fmt.Sprintf("exact region match (%s)", value)}
	case containsFold(value, target):
		return dimensionScore{75, fmt.Sprintf("partial region match (%s ~ %s)", value, target)}
	case sameCluster(e.cfg.RegionSynonyms, value, target):
		return dimensionScore{60, fmt.Sprintf("related region (%s ~ %s)", value, target)}
	}
	return dimensionScore{0, "no region affinity"}
}

// scoreAvailability tiers the advocate's own availability score. It never
// consults the opportunity, so the neutral-target path does not apply here.
func (e *Engine) scoreAvailability(adv Advocate) dimensionScore {
	avail := adv.AvailabilityScore
	switch {
	case avail >= 80:
		return dimensionScore{100, fmt.Sprintf("high availability (%d/100)", avail)}
	case avail >= 60:
		return dimensionScore{75, fmt.Sprintf("good availability (%d/100)", avail)}
	case avail >= 40:
		return dimensionScore{50, fmt.Sprintf("moderate availability (%d/100)", avail)}
	case avail >= 20:
		return dimensionScore{25, fmt.Sprintf("limited availability (%d/100)", avail)}
	}
	return dimensionScore{0, "advocate currently unavailable"}
}

// containsFold reports a case-insensitive substring relation in either
// direction. Blank inputs never match.
func containsFold(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// sameCluster reports whether both values are terms of one synonym cluster.
// Membership is case-insensitive equality; substring overlap between the two
// live values is already rewarded by the partial-match tier.
func sameCluster(clusters [][]string, a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	for _, cluster := range clusters {
		foundA, foundB := false, false
		for _, term := range cluster {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == a {
				foundA = true
			}
			if term == b {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

// overlapCount counts target items fuzzily covered by at least one candidate
// item (case-insensitive substring either direction).
func overlapCount(targets, candidates []string) int {
	matched := 0
	for _, t := range targets {
		for _, c := range candidates {
			if containsFold(t, c) {
				matched++
				break
			}
		}
	}
	return matched
}
