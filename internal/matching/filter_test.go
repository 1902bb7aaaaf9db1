// internal/matching/filter_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func advocateIDs(pool []Advocate) []string {
	ids := make([]string, 0, len(pool))
	for _, adv := range pool {
		ids = append(ids, adv.ID)
	}
	return ids
}

func TestFilterEligible_StatusGate(t *testing.T) {
	pool := []Advocate{
		{ID: "active", Status: StatusActive},
		{ID: "inactive", Status: StatusInactive},
		{ID: "pending", Status: StatusPending},
		{ID: "blacklisted", Status: StatusBlacklisted},
	}

	crit := DefaultCriteria()
	assert.Equal(t, []string{"active"}, advocateIDs(filterEligible(pool, crit)))

	// includeInactive switches the status gate off entirely.
	crit.IncludeInactive = true
	assert.Equal(t, []string{"active", "inactive", "pending", "blacklisted"},
		advocateIDs(filterEligible(pool, crit)))
}

func TestFilterEligible_ExclusionList(t *testing.T) {
	pool := []Advocate{
		{ID: "adv-1", Status: StatusActive},
		{ID: "adv-2", Status: StatusActive},
		{ID: "adv-3", Status: StatusActive},
	}
	crit := DefaultCriteria()
	crit.ExcludeAdvocateIDs = []string{"adv-2", "adv-9"}

	assert.Equal(t, []string{"adv-1", "adv-3"}, advocateIDs(filterEligible(pool, crit)))
}

func TestFilterEligible_PreferredRegions(t *testing.T) {
	pool := []Advocate{
		{ID: "exact", Status: StatusActive, GeographicRegion: strPtr("Europe")},
		{ID: "fuzzy", Status: StatusActive, GeographicRegion: strPtr("Eastern Europe")},
		{ID: "elsewhere", Status: StatusActive, GeographicRegion: strPtr("APAC")},
		{ID: "none", Status: StatusActive},
	}
	crit := DefaultCriteria()
	crit.PreferredRegions = []string{"europe"}

	// Fuzzy matching is substring either direction; an advocate without a
	// region cannot satisfy a region preference.
	assert.Equal(t, []string{"exact", "fuzzy"}, advocateIDs(filterEligible(pool, crit)))

	// No preference admits everyone with an acceptable status.
	crit.PreferredRegions = nil
	assert.Len(t, filterEligible(pool, crit), 4)
}

func TestFilterEligible_CombinedCriteria(t *testing.T) {
	pool := []Advocate{
		{ID: "keep", Status: StatusActive, GeographicRegion: strPtr("USA")},
		{ID: "excluded", Status: StatusActive, GeographicRegion: strPtr("USA")},
		{ID: "inactive", Status: StatusInactive, GeographicRegion: strPtr("USA")},
		{ID: "wrong-region", Status: StatusActive, GeographicRegion: strPtr("Europe")},
	}
	crit := DefaultCriteria()
	crit.ExcludeAdvocateIDs = []string{"excluded"}
	crit.PreferredRegions = []string{"USA"}

	assert.Equal(t, []string{"keep"}, advocateIDs(filterEligible(pool, crit)))
}

func TestFilterEligible_EmptyPool(t *testing.T) {
	assert.Empty(t, filterEligible(nil, DefaultCriteria()))
	assert.Empty(t, filterEligible([]Advocate{}, DefaultCriteria()))
}
