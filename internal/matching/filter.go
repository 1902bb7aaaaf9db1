// internal/matching/filter.go
package matching

// filterEligible narrows the candidate pool before any scoring happens:
// explicit exclusions, status gating, and preferred-region restriction.
// Result order is irrelevant; ranking is by score downstream.
func filterEligible(pool []Advocate, crit MatchingCriteria) []Advocate {
	excluded := make(map[string]struct{}, len(crit.ExcludeAdvocateIDs))
	for _, id := range crit.ExcludeAdvocateIDs {
		excluded[id] = struct{}{}
	}

	eligible := make([]Advocate, 0, len(pool))
	for _, adv := range pool {
		if _, skip := excluded[adv.ID]; skip {
			continue
		}
		if !crit.IncludeInactive && adv.Status != StatusActive {
			continue
		}
		if len(crit.PreferredRegions) > 0 && !regionPreferred(adv, crit.PreferredRegions) {
			continue
		}
		eligible = append(eligible, adv)
	}
	return eligible
}

// regionPreferred reports whether the advocate's region fuzzily matches any
// preferred region. An advocate without a region never matches a non-empty
// preference list.
func regionPreferred(adv Advocate, preferred []string) bool {
	region, ok := optValue(adv.GeographicRegion)
	if !ok {
		return false
	}
	for _, p := range preferred {
		if containsFold(region, p) {
			return true
		}
	}
	return false
}
