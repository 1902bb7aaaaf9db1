// internal/matching/dimensions_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Industry Dimension
// ==========================

func TestScoreIndustry(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		advocate *string
		opp      Opportunity
		expected int
	}{
		{"exact match case-insensitive", strPtr("saas"), Opportunity{ProspectIndustry: strPtr("SaaS")}, 100},
		{"substring advocate into target", strPtr("Tech"), Opportunity{ProspectIndustry: strPtr("Technology")}, 75},
		{"substring target into advocate", strPtr("Financial Services"), Opportunity{ProspectIndustry: strPtr("Financial")}, 75},
		{"synonym cluster", strPtr("Technology"), Opportunity{ProspectIndustry: strPtr("SaaS")}, 60},
		{"synonym cluster manufacturing", strPtr("Industrial"), Opportunity{ProspectIndustry: strPtr("Manufacturing")}, 60},
		{"no affinity", strPtr("Healthcare"), Opportunity{ProspectIndustry: strPtr("Finance")}, 0},
		{"missing advocate value", nil, Opportunity{ProspectIndustry: strPtr("SaaS")}, 0},
		{"blank advocate value", strPtr("   "), Opportunity{ProspectIndustry: strPtr("SaaS")}, 0},
		{"no target anywhere", strPtr("SaaS"), Opportunity{}, 50},
		{"override beats prospect", strPtr("SaaS"), Opportunity{ProspectIndustry: strPtr("Finance"), DesiredAdvocateIndustry: strPtr("SaaS")}, 100},
		{"override hides matching prospect", strPtr("Finance"), Opportunity{ProspectIndustry: strPtr("Finance"), DesiredAdvocateIndustry: strPtr("SaaS")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := engine.scoreIndustry(Advocate{ID: "adv", Industry: tt.advocate}, tt.opp)
			assert.Equal(t, tt.expected, dim.score)
			assert.NotEmpty(t, dim.reason)
		})
	}
}

// ==========================
// Company Size Dimension
// ==========================

func TestScoreCompanySize(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		advocate *string
		opp      Opportunity
		expected int
	}{
		{"exact bucket", strPtr("51-200"), Opportunity{ProspectSize: strPtr("51-200")}, 100},
		{"distance one", strPtr("11-50"), Opportunity{ProspectSize: strPtr("51-200")}, 80},
		{"distance two", strPtr("1-10"), Opportunity{ProspectSize: strPtr("51-200")}, 60},
		{"distance three", strPtr("1000+"), Opportunity{ProspectSize: strPtr("51-200")}, 40},
		{"distance four", strPtr("501-1000"), Opportunity{ProspectSize: strPtr("1-10")}, 20},
		{"distance five still twenty", strPtr("1000+"), Opportunity{ProspectSize: strPtr("1-10")}, 20},
		{"desired size wins", strPtr("1-10"), Opportunity{ProspectSize: strPtr("1-10"), DesiredAdvocateSize: strPtr("1000+")}, 20},
		{"missing advocate size", nil, Opportunity{ProspectSize: strPtr("51-200")}, 0},
		{"unrecognized advocate bucket", strPtr("huge"), Opportunity{ProspectSize: strPtr("51-200")}, 0},
		{"no target anywhere", strPtr("51-200"), Opportunity{}, 50},
		{"unrecognized target bucket", strPtr("51-200"), Opportunity{ProspectSize: strPtr("mid-market")}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := engine.scoreCompanySize(Advocate{ID: "adv", CompanySize: tt.advocate}, tt.opp)
			assert.Equal(t, tt.expected, dim.score)
		})
	}
}

// ==========================
// Use Case Dimension
// ==========================

func TestScoreUseCases(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		advocate []string
		opp      Opportunity
		expected int
	}{
		{"full overlap", []string{"onboarding", "analytics"}, Opportunity{DesiredUseCases: []string{"onboarding", "analytics"}}, 100},
		{"two of three", []string{"onboarding", "analytics"}, Opportunity{DesiredUseCases: []string{"onboarding", "analytics", "billing"}}, 67},
		{"one of three", []string{"billing"}, Opportunity{DesiredUseCases: []string{"onboarding", "analytics", "billing"}}, 33},
		{"fuzzy substring", []string{"Customer Onboarding"}, Opportunity{DesiredUseCases: []string{"onboarding"}}, 100},
		{"zero overlap is zero not neutral", []string{"billing"}, Opportunity{DesiredUseCases: []string{"onboarding"}}, 0},
		{"singleton fallback from opportunity", []string{"analytics"}, Opportunity{UseCase: strPtr("analytics")}, 100},
		{"desired set beats singleton", []string{"analytics"}, Opportunity{UseCase: strPtr("analytics"), DesiredUseCases: []string{"billing"}}, 0},
		{"missing advocate use cases", nil, Opportunity{DesiredUseCases: []string{"onboarding"}}, 0},
		{"no target anywhere", []string{"analytics"}, Opportunity{}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := engine.scoreUseCases(Advocate{ID: "adv", UseCases: tt.advocate}, tt.opp)
			assert.Equal(t, tt.expected, dim.score)
		})
	}
}

// ==========================
// Expertise Dimension
// ==========================

func TestScoreExpertise(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		advocate []string
		opp      Opportunity
		expected int
	}{
		{"full overlap", []string{"security", "migrations"}, Opportunity{DesiredExpertiseAreas: []string{"security", "migrations"}}, 100},
		{"half overlap", []string{"security"}, Opportunity{DesiredExpertiseAreas: []string{"security", "migrations"}}, 50},
		{"zero overlap", []string{"devops"}, Opportunity{DesiredExpertiseAreas: []string{"security"}}, 0},
		{"missing advocate expertise", nil, Opportunity{DesiredExpertiseAreas: []string{"security"}}, 0},
		{"no desired expertise is neutral", []string{"security"}, Opportunity{}, 50},
		// The opportunity's single use case is not a fallback for expertise.
		{"use case is not an expertise target", []string{"security"}, Opportunity{UseCase: strPtr("security")}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := engine.scoreExpertise(Advocate{ID: "adv", ExpertiseAreas: tt.advocate}, tt.opp)
			assert.Equal(t, tt.expected, dim.score)
		})
	}
}

// ==========================
// Region Dimension
// ==========================

func TestScoreRegion(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		advocate *string
		opp      Opportunity
		expected int
	}{
		{"exact match", strPtr("EUROPE"), Opportunity{GeographicRegion: strPtr("europe")}, 100},
		{"partial match", strPtr("America"), Opportunity{GeographicRegion: strPtr("North America")}, 75},
		{"cluster north america", strPtr("USA"), Opportunity{GeographicRegion: strPtr("Canada")}, 60},
		{"cluster asia pacific", strPtr("Australia"), Opportunity{GeographicRegion: strPtr("APAC")}, 60},
		{"no affinity", strPtr("Europe"), Opportunity{GeographicRegion: strPtr("LATAM")}, 0},
		{"missing advocate region", nil, Opportunity{GeographicRegion: strPtr("Europe")}, 0},
		{"no target anywhere", strPtr("Europe"), Opportunity{}, 50},
		{"desired region wins", strPtr("USA"), Opportunity{GeographicRegion: strPtr("USA"), DesiredAdvocateRegion: strPtr("Europe")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := engine.scoreRegion(Advocate{ID: "adv", GeographicRegion: tt.advocate}, tt.opp)
			assert.Equal(t, tt.expected, dim.score)
		})
	}
}

// ==========================
// Availability Dimension
// ==========================

func TestScoreAvailability(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		availability int
		expected     int
	}{
		{100, 100},
		{80, 100},
		{79, 75},
		{60, 75},
		{59, 50},
		{40, 50},
		{39, 25},
		{20, 25},
		{19, 0},
		{0, 0},
	}
	for _, tt := range tests {
		dim := engine.scoreAvailability(Advocate{ID: "adv", AvailabilityScore: tt.availability})
		assert.Equal(t, tt.expected, dim.score, "availability %d", tt.availability)
	}
}

// ==========================
// Fuzzy Helpers
// ==========================

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("SaaS", "saas"))
	assert.True(t, containsFold("Tech", "Technology"))
	assert.True(t, containsFold("Technology", "Tech"))
	assert.False(t, containsFold("SaaS", "Finance"))
	assert.False(t, containsFold("", "anything"))
	assert.False(t, containsFold("  ", "anything"))
}

func TestSameCluster(t *testing.T) {
	clusters := DefaultConfig().IndustrySynonyms
	assert.True(t, sameCluster(clusters, "Technology", "SaaS"))
	assert.True(t, sameCluster(clusters, "software", "TECHNOLOGY"))
	assert.False(t, sameCluster(clusters, "Technology", "Finance"))
	assert.False(t, sameCluster(clusters, "Technology", "Technologies"))
}
